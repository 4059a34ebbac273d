package personalization

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/myrberg/trainwise/internal/sqlite"
)

const (
	defaultMLTimeout  = 2 * time.Second
	defaultWindowSize = 10
)

// Options tunes the engine. Zero values fall back to defaults.
type Options struct {
	// OpenAIAPIKey enables the ML advisor. Empty means heuristic-only.
	OpenAIAPIKey string
	// MLTimeout bounds a single inference call.
	MLTimeout time.Duration
	// WindowSize is the number of recent sessions summarized per request.
	WindowSize int
	// SelectionSize is the number of exercises selected per workout.
	SelectionSize int
}

// Service handles the business logic for workout personalization.
type Service struct {
	users         UserRepository
	history       WorkoutHistoryProvider
	health        HealthDataProvider
	feedback      FeedbackStore
	catalog       ExerciseCatalog
	advisor       MLInferenceService
	cache         *resultCache
	logger        *slog.Logger
	mlTimeout     time.Duration
	windowSize    int
	selectionSize int
	now           func() time.Time
}

// NewService creates a personalization service backed by the SQLite
// repositories and, when an API key is configured, the OpenAI advisor.
func NewService(db *sqlite.Database, logger *slog.Logger, opts Options) *Service {
	factory := newRepositoryFactory(db, logger)
	repo := factory.newRepository()

	var advisor MLInferenceService = unavailableAdvisor{}
	if opts.OpenAIAPIKey != "" {
		advisor = newOpenAIAdvisor(opts.OpenAIAPIKey, logger)
	}

	return newService(
		repo.users, repo.history, repo.health, repo.feedback, repo.catalog,
		advisor, logger, opts,
	)
}

// newService wires explicit collaborators, used directly in tests.
func newService(
	users UserRepository,
	history WorkoutHistoryProvider,
	health HealthDataProvider,
	feedback FeedbackStore,
	catalog ExerciseCatalog,
	advisor MLInferenceService,
	logger *slog.Logger,
	opts Options,
) *Service {
	if opts.MLTimeout <= 0 {
		opts.MLTimeout = defaultMLTimeout
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = defaultWindowSize
	}
	if opts.SelectionSize <= 0 {
		opts.SelectionSize = DefaultSelectionSize
	}
	return &Service{
		users:         users,
		history:       history,
		health:        health,
		feedback:      feedback,
		catalog:       catalog,
		advisor:       advisor,
		cache:         newResultCache(),
		logger:        logger,
		mlTimeout:     opts.MLTimeout,
		windowSize:    opts.WindowSize,
		selectionSize: opts.SelectionSize,
		now:           time.Now,
	}
}

// Personalize produces the prescription for the user, template, and current
// calendar day. Repeated calls within the same day return the identical
// cached result; concurrent calls for the same key collapse into one
// computation.
func (s *Service) Personalize(ctx context.Context, userID string, template WorkoutTemplate) (PersonalizedWorkout, error) {
	if err := validatePersonalizeInput(userID, template); err != nil {
		return PersonalizedWorkout{}, err
	}

	now := s.now()
	key := newCacheKey(userID, template.ID, now)
	workout, err := s.cache.getOrCompute(ctx, key, func(computeCtx context.Context) (PersonalizedWorkout, error) {
		return s.computeWorkout(computeCtx, userID, template, now)
	})
	if err != nil {
		return PersonalizedWorkout{}, fmt.Errorf("personalize workout: %w", err)
	}
	return workout, nil
}

func validatePersonalizeInput(userID string, template WorkoutTemplate) error {
	switch {
	case userID == "":
		return fmt.Errorf("%w: empty user ID", ErrInvalidInput)
	case template.ID == "":
		return fmt.Errorf("%w: empty template ID", ErrInvalidInput)
	case template.DurationMinutes <= 0:
		return fmt.Errorf("%w: non-positive template duration", ErrInvalidInput)
	case template.Difficulty <= 0:
		return fmt.Errorf("%w: non-positive template difficulty", ErrInvalidInput)
	}
	return nil
}

// computeWorkout runs the full pipeline: aggregate inputs, estimate factors,
// consult the advisor, reconcile, select exercises, and attach volume and
// recovery guidance.
func (s *Service) computeWorkout(
	ctx context.Context,
	userID string,
	template WorkoutTemplate,
	now time.Time,
) (PersonalizedWorkout, error) {
	aggregator := &contextAggregator{
		users:      s.users,
		history:    s.history,
		health:     s.health,
		feedback:   s.feedback,
		logger:     s.logger,
		windowSize: s.windowSize,
	}
	pctx, err := aggregator.Aggregate(ctx, userID, now)
	if err != nil {
		return PersonalizedWorkout{}, fmt.Errorf("aggregate personalization context: %w", err)
	}
	if len(pctx.Profile.Goals) == 0 {
		return PersonalizedWorkout{}, fmt.Errorf("%w: profile has no goals", ErrInvalidInput)
	}

	factors := s.estimateFactors(pctx)
	prediction := s.predict(ctx, &factors, template, pctx)

	multipliers, reasoning := reconcile(factors, prediction, template, pctx.FeedbackBias)
	reasoning = append(pctx.Degraded, reasoning...)

	candidates, err := s.catalog.ListCandidates(ctx, CatalogFilter{})
	if err != nil {
		return PersonalizedWorkout{}, fmt.Errorf("list exercise candidates: %w", err)
	}
	exercises := selectExercises(candidates, pctx.Profile, pctx.RecentExerciseIDs, s.selectionSize)

	readiness := factors.Readiness
	volume := adjustVolume(template.BaseVolume, pctx.Performance, factors.Trend, readiness)

	intensity := clamp01(template.Intensity * multipliers.intensity)
	recovery := recommendRecovery(intensity, pctx.Profile)

	return PersonalizedWorkout{
		UserID:          userID,
		TemplateID:      template.ID,
		Date:            now,
		Exercises:       exercises,
		Difficulty:      template.Difficulty * multipliers.difficulty,
		DurationMinutes: int(math.Round(float64(template.DurationMinutes) * multipliers.duration)),
		Intensity:       intensity,
		Factors:         factors,
		Volume:          volume,
		Recovery:        recovery,
		Reasoning:       reasoning,
		ComputedAt:      now,
	}, nil
}

// estimateFactors derives the heuristic factors from the aggregated context.
// MLConfidence starts at zero; predict fills it in on success.
func (s *Service) estimateFactors(pctx PersonalizationContext) PersonalizationFactors {
	readiness := defaultReadiness
	if pctx.Health != nil {
		readiness = estimateReadiness(*pctx.Health)
	}
	return PersonalizationFactors{
		Readiness:    readiness,
		Fatigue:      bucketFatigue(estimateFatigueScore(pctx.Performance)),
		Trend:        classifyTrend(pctx.Performance.Improvement),
		MLConfidence: 0,
	}
}

// predict consults the advisor within the configured timeout. Any failure
// leaves MLConfidence at zero and returns nil so the pipeline continues
// heuristic-only.
func (s *Service) predict(
	ctx context.Context,
	factors *PersonalizationFactors,
	template WorkoutTemplate,
	pctx PersonalizationContext,
) *Prediction {
	predictCtx, cancel := context.WithTimeout(ctx, s.mlTimeout)
	defer cancel()

	prediction, err := s.advisor.Predict(predictCtx, PredictionInput{
		Template:    template,
		Profile:     pctx.Profile,
		Performance: pctx.Performance,
		Health:      pctx.Health,
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "ML advisor unavailable, continuing heuristic-only",
			slog.String("user_id", pctx.Profile.ID), slog.Any("error", err))
		return nil
	}

	factors.MLConfidence = prediction.Confidence
	return &prediction
}

// SubmitFeedback validates and records a feedback signal, then invalidates
// the cached prescription so the next request reflects it.
func (s *Service) SubmitFeedback(ctx context.Context, userID, workoutID string, fb Feedback) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user ID", ErrInvalidInput)
	}
	if workoutID == "" {
		return fmt.Errorf("%w: empty workout ID", ErrInvalidInput)
	}
	if err := validateFeedback(fb); err != nil {
		return err
	}

	signal := FeedbackSignal{
		UserID:    userID,
		WorkoutID: workoutID,
		Feedback:  fb,
		CreatedAt: s.now(),
	}
	if err := s.feedback.Record(ctx, signal); err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}

	s.cache.invalidate(userID, workoutID)
	return nil
}

// OverloadPlan builds the progressive overload trajectory for one exercise.
func (s *Service) OverloadPlan(ctx context.Context, userID string, exerciseID int) (ProgressiveOverloadPlan, error) {
	if userID == "" {
		return ProgressiveOverloadPlan{}, fmt.Errorf("%w: empty user ID", ErrInvalidInput)
	}

	profile, err := s.users.Profile(ctx, userID)
	if err != nil {
		return ProgressiveOverloadPlan{}, fmt.Errorf("%w: fetch profile for %s: %w", ErrDataUnavailable, userID, err)
	}

	history, err := s.history.ExerciseHistory(ctx, userID, exerciseID)
	if err != nil {
		return ProgressiveOverloadPlan{}, fmt.Errorf("fetch exercise history: %w", err)
	}

	now := s.now()
	sustained := false
	signals, err := s.feedback.Signals(ctx, userID, now.Add(-feedbackWindow))
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "feedback signals unavailable, planning without deload check",
			slog.String("user_id", userID), slog.Any("error", err))
	} else {
		_, sustained = deriveFeedbackAdjustment(signals)
	}

	return planOverload(userID, exerciseID, profile.FitnessLevel, history, sustained, now), nil
}

// ExerciseInfo returns one catalog descriptor, for the exercise info endpoint.
func (s *Service) ExerciseInfo(ctx context.Context, exerciseID int) (ExerciseDescriptor, error) {
	descriptor, err := s.catalog.Exercise(ctx, exerciseID)
	if err != nil {
		return ExerciseDescriptor{}, fmt.Errorf("fetch exercise %d: %w", exerciseID, err)
	}
	return descriptor, nil
}

// RecordHealthSnapshot stores a wearable metrics sample when the configured
// health provider supports writes.
func (s *Service) RecordHealthSnapshot(ctx context.Context, userID string, snapshot HealthSnapshot) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user ID", ErrInvalidInput)
	}
	recorder, ok := s.health.(HealthRecorder)
	if !ok {
		return fmt.Errorf("%w: health provider does not accept snapshots", ErrInvalidInput)
	}
	if err := recorder.RecordSnapshot(ctx, userID, snapshot); err != nil {
		return fmt.Errorf("record health snapshot: %w", err)
	}
	return nil
}
