package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrberg/trainwise/internal/personalization"
)

// writeJSON serializes v with the given status code.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", slog.Any("error", err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// handleServiceError maps the engine's sentinel errors onto HTTP statuses.
func (app *application) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, personalization.ErrInvalidInput):
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, personalization.ErrDataUnavailable), errors.Is(err, personalization.ErrNotFound):
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "required data missing", slog.Any("error", err))
		app.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "required data not found"})
	default:
		app.serverError(w, r, err)
	}
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

// parseExerciseIDParam parses the "exerciseID" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseExerciseIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	exerciseIDStr := r.PathValue("exerciseID")
	exerciseID, err := strconv.Atoi(exerciseIDStr)
	if err != nil {
		app.notFound(w, r)
		return 0, false
	}
	return exerciseID, true
}
