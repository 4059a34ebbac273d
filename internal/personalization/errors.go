package personalization

import "github.com/myrberg/trainwise/internal/errors"

var (
	// ErrDataUnavailable means a hard-required upstream record (the user
	// profile) could not be fetched. Fatal for the request.
	ErrDataUnavailable = errors.NewSentinel("required data unavailable")

	// ErrMLUnavailable means the inference service failed or timed out.
	// Never fatal; callers fall back to heuristics with zero confidence.
	ErrMLUnavailable = errors.NewSentinel("ml inference unavailable")

	// ErrInvalidInput rejects a request before any computation.
	ErrInvalidInput = errors.NewSentinel("invalid input")

	// ErrNotFound is returned by repositories for missing records.
	ErrNotFound = errors.NewSentinel("not found")
)
