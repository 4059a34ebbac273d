package main

import (
	"bytes"
	"net/http"

	"github.com/myrberg/trainwise/internal/personalization"
	"github.com/yuin/goldmark"
)

// exerciseInfoResponse is the catalog descriptor with its description
// rendered to HTML.
type exerciseInfoResponse struct {
	ID              int                          `json:"id"`
	Name            string                       `json:"name"`
	Category        personalization.Category     `json:"category"`
	Level           personalization.FitnessLevel `json:"level"`
	Goals           []string                     `json:"goals"`
	Equipment       []string                     `json:"equipment"`
	DescriptionHTML string                       `json:"description_html"`
}

// exerciseInfoGET returns exercise information with the Markdown description
// rendered to HTML.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseExerciseIDParam(w, r)
	if !ok {
		return
	}

	exercise, err := app.personalizationService.ExerciseInfo(r.Context(), exerciseID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	var description bytes.Buffer
	if err = goldmark.Convert([]byte(exercise.DescriptionMarkdown), &description); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, exerciseInfoResponse{
		ID:              exercise.ID,
		Name:            exercise.Name,
		Category:        exercise.Category,
		Level:           exercise.Level,
		Goals:           exercise.Goals,
		Equipment:       exercise.Equipment,
		DescriptionHTML: description.String(),
	})
}
