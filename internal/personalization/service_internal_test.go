package personalization

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// Fakes for the engine's collaborator ports.

type fakeUsers struct {
	profile UserProfile
	err     error
	calls   atomic.Int32
}

func (f *fakeUsers) Profile(context.Context, string) (UserProfile, error) {
	f.calls.Add(1)
	return f.profile, f.err
}

type fakeHistory struct {
	perf       PerformanceSnapshot
	perfErr    error
	recentIDs  []int
	exercise   []ExercisePerformance
	historyErr error
}

func (f *fakeHistory) RecentPerformance(context.Context, string, int) (PerformanceSnapshot, error) {
	return f.perf, f.perfErr
}

func (f *fakeHistory) RecentExerciseIDs(context.Context, string, time.Time) ([]int, error) {
	return f.recentIDs, nil
}

func (f *fakeHistory) ExerciseHistory(context.Context, string, int) ([]ExercisePerformance, error) {
	return f.exercise, f.historyErr
}

type fakeHealth struct {
	snapshot HealthSnapshot
	err      error
}

func (f *fakeHealth) CurrentSnapshot(context.Context, string, time.Time) (HealthSnapshot, error) {
	return f.snapshot, f.err
}

type fakeFeedback struct {
	signals  []FeedbackSignal
	recorded []FeedbackSignal
}

func (f *fakeFeedback) Record(_ context.Context, signal FeedbackSignal) error {
	f.recorded = append(f.recorded, signal)
	return nil
}

func (f *fakeFeedback) Signals(context.Context, string, time.Time) ([]FeedbackSignal, error) {
	return f.signals, nil
}

type fakeCatalog struct {
	exercises []ExerciseDescriptor
}

func (f *fakeCatalog) ListCandidates(context.Context, CatalogFilter) ([]ExerciseDescriptor, error) {
	return f.exercises, nil
}

func (f *fakeCatalog) Exercise(_ context.Context, id int) (ExerciseDescriptor, error) {
	for _, exercise := range f.exercises {
		if exercise.ID == id {
			return exercise, nil
		}
	}
	return ExerciseDescriptor{}, ErrNotFound
}

type fakeAdvisor struct {
	prediction Prediction
	err        error
	calls      atomic.Int32
}

func (f *fakeAdvisor) Predict(context.Context, PredictionInput) (Prediction, error) {
	f.calls.Add(1)
	return f.prediction, f.err
}

func testTemplate() WorkoutTemplate {
	return WorkoutTemplate{
		ID:              "full-body-a",
		Name:            "Full Body A",
		Difficulty:      0.5,
		DurationMinutes: 60,
		Intensity:       0.6,
		BaseVolume:      TrainingVolume{Sets: 4, Reps: 10, WeightKg: 60, DurationMinutes: 45},
	}
}

func testProfile() UserProfile {
	return UserProfile{
		ID:           "user-1",
		FitnessLevel: FitnessIntermediate,
		Age:          30,
		Goals:        []string{"strength"},
		Equipment:    []string{"barbell", "rack", "bench"},
	}
}

// newTestService wires the fakes with a fixed clock.
func newTestService(users *fakeUsers, history *fakeHistory, health *fakeHealth, feedback *fakeFeedback, catalog *fakeCatalog, advisor MLInferenceService) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := newService(users, history, health, feedback, catalog, advisor, logger, Options{})
	svc.now = func() time.Time {
		return time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func defaultFakes() (*fakeUsers, *fakeHistory, *fakeHealth, *fakeFeedback, *fakeCatalog, *fakeAdvisor) {
	users := &fakeUsers{profile: testProfile()}
	history := &fakeHistory{
		perf: PerformanceSnapshot{
			AverageIntensity: 0.6,
			Consistency:      0.8,
			Improvement:      0.15,
			RecoveryQuality:  0.7,
		},
	}
	health := &fakeHealth{snapshot: HealthSnapshot{SleepHours: 8, StressLevel: 10, EnergyLevel: 90}}
	feedback := &fakeFeedback{}
	catalog := &fakeCatalog{exercises: selectorCandidates()}
	advisor := &fakeAdvisor{err: ErrMLUnavailable}
	return users, history, health, feedback, catalog, advisor
}

func TestServicePersonalize(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	workout, err := svc.Personalize(t.Context(), "user-1", testTemplate())
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}

	if workout.UserID != "user-1" || workout.TemplateID != "full-body-a" {
		t.Errorf("identity mismatch: %+v", workout)
	}
	if workout.Factors.MLConfidence != 0 {
		t.Errorf("MLConfidence = %v, want 0 with unavailable advisor", workout.Factors.MLConfidence)
	}
	if workout.Factors.Trend != TrendImproving {
		t.Errorf("Trend = %v, want %v", workout.Factors.Trend, TrendImproving)
	}
	if workout.Difficulty < testTemplate().Difficulty*minMultiplier ||
		workout.Difficulty > testTemplate().Difficulty*maxMultiplier {
		t.Errorf("Difficulty %v outside the clamped range", workout.Difficulty)
	}
	if workout.Intensity < 0 || workout.Intensity > 1 {
		t.Errorf("Intensity %v outside [0,1]", workout.Intensity)
	}
	if len(workout.Exercises) == 0 {
		t.Error("no exercises selected")
	}
	if len(workout.Reasoning) == 0 {
		t.Error("reasoning trail is empty")
	}
	if workout.Recovery.RecoveryTime <= 0 {
		t.Error("missing recovery recommendation")
	}
}

func TestServicePersonalizeCachesPerDay(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	first, err := svc.Personalize(t.Context(), "user-1", testTemplate())
	if err != nil {
		t.Fatalf("first Personalize: %v", err)
	}
	second, err := svc.Personalize(t.Context(), "user-1", testTemplate())
	if err != nil {
		t.Fatalf("second Personalize: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same-day results differ (-first +second):\n%s", diff)
	}
	if got := users.calls.Load(); got != 1 {
		t.Errorf("profile fetched %d times, want 1", got)
	}
}

func TestServicePersonalizeValidation(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	tests := []struct {
		name     string
		userID   string
		template WorkoutTemplate
	}{
		{"empty user ID", "", testTemplate()},
		{"empty template ID", "user-1", WorkoutTemplate{DurationMinutes: 60, Difficulty: 0.5}},
		{
			"non-positive duration", "user-1",
			WorkoutTemplate{ID: "tpl", DurationMinutes: 0, Difficulty: 0.5},
		},
		{
			"non-positive difficulty", "user-1",
			WorkoutTemplate{ID: "tpl", DurationMinutes: 60, Difficulty: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Personalize(t.Context(), tt.userID, tt.template)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestServicePersonalizeMissingProfileFails(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	users.err = ErrNotFound
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	_, err := svc.Personalize(t.Context(), "user-1", testTemplate())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("got %v, want ErrDataUnavailable", err)
	}
}

func TestServicePersonalizeDegradesWithoutHistoryAndHealth(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	history.perfErr = ErrNotFound
	health.err = ErrNotFound
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	workout, err := svc.Personalize(t.Context(), "user-1", testTemplate())
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}

	if workout.Factors.Readiness != defaultReadiness {
		t.Errorf("Readiness = %v, want default %v", workout.Factors.Readiness, defaultReadiness)
	}
	if workout.Factors.Trend != TrendStable {
		t.Errorf("Trend = %v, want stable with default history", workout.Factors.Trend)
	}
	if len(workout.Reasoning) < 2 {
		t.Errorf("degraded paths missing from reasoning: %v", workout.Reasoning)
	}
}

func TestServicePersonalizeBlendsTrustedPrediction(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	advisor.err = nil
	advisor.prediction = Prediction{Difficulty: 0.55, DurationMinutes: 66, Confidence: 0.9}
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	workout, err := svc.Personalize(t.Context(), "user-1", testTemplate())
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}

	if workout.Factors.MLConfidence != 0.9 {
		t.Errorf("MLConfidence = %v, want 0.9", workout.Factors.MLConfidence)
	}
	if got := advisor.calls.Load(); got != 1 {
		t.Errorf("advisor called %d times, want 1", got)
	}
}

func TestServiceSubmitFeedbackInvalidatesCache(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	if _, err := svc.Personalize(t.Context(), "user-1", testTemplate()); err != nil {
		t.Fatalf("Personalize: %v", err)
	}

	fb := Feedback{Difficulty: 5, Enjoyment: 3, Completion: 0.8}
	if err := svc.SubmitFeedback(t.Context(), "user-1", "full-body-a", fb); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if len(feedback.recorded) != 1 {
		t.Fatalf("recorded %d signals, want 1", len(feedback.recorded))
	}

	// Next request recomputes with the new signal in scope.
	if _, err := svc.Personalize(t.Context(), "user-1", testTemplate()); err != nil {
		t.Fatalf("Personalize after feedback: %v", err)
	}
	if got := users.calls.Load(); got != 2 {
		t.Errorf("profile fetched %d times, want 2 after invalidation", got)
	}
}

func TestServiceSubmitFeedbackRejectsInvalid(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	err := svc.SubmitFeedback(t.Context(), "user-1", "full-body-a",
		Feedback{Difficulty: 9, Enjoyment: 3, Completion: 0.5})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
	if len(feedback.recorded) != 0 {
		t.Error("invalid feedback was recorded")
	}
}

func TestServiceOverloadPlan(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	history.exercise = overloadHistory(80, 82.5, 85, 87.5)
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	plan, err := svc.OverloadPlan(t.Context(), "user-1", 3)
	if err != nil {
		t.Fatalf("OverloadPlan: %v", err)
	}

	if plan.UserID != "user-1" || plan.ExerciseID != 3 {
		t.Errorf("identity mismatch: %+v", plan)
	}
	if len(plan.Phases) != overloadPhaseCount {
		t.Errorf("got %d phases, want %d", len(plan.Phases), overloadPhaseCount)
	}
}

func TestServiceOverloadPlanDeloadsOnSustainedComplaints(t *testing.T) {
	users, history, health, feedback, catalog, advisor := defaultFakes()
	history.exercise = overloadHistory(100, 100, 100, 100)
	feedback.signals = feedbackSignals(5, 4)
	svc := newTestService(users, history, health, feedback, catalog, advisor)

	plan, err := svc.OverloadPlan(t.Context(), "user-1", 3)
	if err != nil {
		t.Fatalf("OverloadPlan: %v", err)
	}

	if plan.Phases[0].TargetLoad >= plan.CurrentLoad {
		t.Errorf("first phase %v not deloaded below current %v",
			plan.Phases[0].TargetLoad, plan.CurrentLoad)
	}
}
