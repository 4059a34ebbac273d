package main

import (
	"net/http"

	"github.com/myrberg/trainwise/internal/personalization"
)

// personalizePOST computes the personalized prescription for the user and the
// workout template in the request body. Repeated requests within the same
// calendar day return the identical cached prescription.
func (app *application) personalizePOST(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var template personalization.WorkoutTemplate
	if !app.decodeJSON(w, r, &template) {
		return
	}

	workout, err := app.personalizationService.Personalize(r.Context(), userID, template)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, workout)
}
