package main

import (
	"net/http"
	"time"

	"github.com/myrberg/trainwise/internal/personalization"
)

// healthSnapshotPOST stores a wearable metrics sample for the user. A missing
// taken_at timestamp defaults to the time of submission.
func (app *application) healthSnapshotPOST(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var snapshot personalization.HealthSnapshot
	if !app.decodeJSON(w, r, &snapshot) {
		return
	}
	if snapshot.TakenAt.IsZero() {
		snapshot.TakenAt = time.Now()
	}

	if err := app.personalizationService.RecordHealthSnapshot(r.Context(), userID, snapshot); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
