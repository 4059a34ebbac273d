package main

import "net/http"

// overloadPlanGET returns the progressive overload trajectory for one
// exercise.
func (app *application) overloadPlanGET(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	exerciseID, ok := app.parseExerciseIDParam(w, r)
	if !ok {
		return
	}

	plan, err := app.personalizationService.OverloadPlan(r.Context(), userID, exerciseID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, plan)
}
