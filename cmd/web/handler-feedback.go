package main

import (
	"net/http"

	"github.com/myrberg/trainwise/internal/personalization"
)

// feedbackPOST records post-workout feedback and invalidates the cached
// prescription for the workout.
func (app *application) feedbackPOST(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	workoutID := r.PathValue("workoutID")

	var feedback personalization.Feedback
	if !app.decodeJSON(w, r, &feedback) {
		return
	}

	if err := app.personalizationService.SubmitFeedback(r.Context(), userID, workoutID, feedback); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
