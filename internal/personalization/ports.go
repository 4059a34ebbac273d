package personalization

import (
	"context"
	"time"
)

// UserRepository fetches user profiles from the external user store.
type UserRepository interface {
	// Profile returns ErrNotFound when the user is unknown.
	Profile(ctx context.Context, userID string) (UserProfile, error)
}

// WorkoutHistoryProvider exposes the rolling performance window and recent
// exercise exposure owned by the history collaborator.
type WorkoutHistoryProvider interface {
	// RecentPerformance summarizes the last windowSize sessions.
	RecentPerformance(ctx context.Context, userID string, windowSize int) (PerformanceSnapshot, error)
	// RecentExerciseIDs lists exercises performed since the given time,
	// used to down-weight recently seen exercises during selection.
	RecentExerciseIDs(ctx context.Context, userID string, since time.Time) ([]int, error)
	// ExerciseHistory returns per-session performance for one exercise,
	// oldest first.
	ExerciseHistory(ctx context.Context, userID string, exerciseID int) ([]ExercisePerformance, error)
}

// HealthDataProvider produces the current physiological snapshot.
type HealthDataProvider interface {
	// CurrentSnapshot returns ErrNotFound when no snapshot fresh relative
	// to now exists.
	CurrentSnapshot(ctx context.Context, userID string, now time.Time) (HealthSnapshot, error)
}

// HealthRecorder is implemented by health providers that also accept
// wearable metrics samples.
type HealthRecorder interface {
	RecordSnapshot(ctx context.Context, userID string, snapshot HealthSnapshot) error
}

// MLInferenceService is the boundary to the external inference service.
type MLInferenceService interface {
	// Predict returns ErrMLUnavailable on failure or timeout. It never
	// returns a silent default so callers can tell "model absent" apart
	// from a low-confidence prediction.
	Predict(ctx context.Context, input PredictionInput) (Prediction, error)
}

// ExerciseCatalog lists candidate exercises for selection.
type ExerciseCatalog interface {
	// ListCandidates returns descriptors in catalog insertion order.
	ListCandidates(ctx context.Context, filter CatalogFilter) ([]ExerciseDescriptor, error)
	// Exercise returns ErrNotFound for unknown IDs.
	Exercise(ctx context.Context, id int) (ExerciseDescriptor, error)
}

// FeedbackStore persists feedback signals consumed by future requests.
type FeedbackStore interface {
	Record(ctx context.Context, signal FeedbackSignal) error
	// Signals returns signals created at or after since, newest first.
	Signals(ctx context.Context, userID string, since time.Time) ([]FeedbackSignal, error)
}

// CatalogFilter narrows the candidate pool.
type CatalogFilter struct {
	Category Category // empty matches all categories
}
