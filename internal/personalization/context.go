package personalization

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Degraded-path defaults documented in the reasoning trail. Missing history
// or health data reduce confidence but never fail the request; only a missing
// profile is fatal.
const (
	defaultConsistency     = 0.5
	defaultImprovement     = 0.0
	defaultRecoveryQuality = 0.5

	// recentExposureWindow is how far back exercise exposure counts
	// against selection.
	recentExposureWindow = 7 * 24 * time.Hour
)

// contextAggregator gathers profile, history, health, and feedback data into
// one normalized PersonalizationContext.
type contextAggregator struct {
	users      UserRepository
	history    WorkoutHistoryProvider
	health     HealthDataProvider
	feedback   FeedbackStore
	logger     *slog.Logger
	windowSize int
}

// Aggregate fans out the upstream fetches in parallel and joins them.
//
// The profile fetch is a hard requirement; its failure aborts with
// ErrDataUnavailable. All other fetches degrade to documented defaults and
// record the degradation in a fixed order so the reasoning trail stays
// deterministic.
func (a *contextAggregator) Aggregate(ctx context.Context, userID string, now time.Time) (PersonalizationContext, error) {
	var (
		profile         UserProfile
		perf            PerformanceSnapshot
		health          *HealthSnapshot
		recentIDs       []int
		signals         []FeedbackSignal
		historyDegraded bool
		healthDegraded  bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if profile, err = a.users.Profile(gctx, userID); err != nil {
			return fmt.Errorf("%w: fetch profile for %s: %w", ErrDataUnavailable, userID, err)
		}
		return nil
	})

	g.Go(func() error {
		snapshot, err := a.history.RecentPerformance(gctx, userID, a.windowSize)
		if err != nil {
			a.logger.LogAttrs(gctx, slog.LevelWarn, "performance history unavailable, using defaults",
				slog.String("user_id", userID), slog.Any("error", err))
			historyDegraded = true
			perf = PerformanceSnapshot{
				AverageIntensity: 0,
				Consistency:      defaultConsistency,
				Improvement:      defaultImprovement,
				RecoveryQuality:  defaultRecoveryQuality,
			}
			return nil
		}
		perf = snapshot
		return nil
	})

	g.Go(func() error {
		snapshot, err := a.health.CurrentSnapshot(gctx, userID, now)
		if err != nil {
			a.logger.LogAttrs(gctx, slog.LevelWarn, "health snapshot unavailable, using default readiness",
				slog.String("user_id", userID), slog.Any("error", err))
			healthDegraded = true
			return nil
		}
		health = &snapshot
		return nil
	})

	g.Go(func() error {
		ids, err := a.history.RecentExerciseIDs(gctx, userID, now.Add(-recentExposureWindow))
		if err != nil {
			a.logger.LogAttrs(gctx, slog.LevelWarn, "recent exercise exposure unavailable",
				slog.String("user_id", userID), slog.Any("error", err))
			return nil
		}
		recentIDs = ids
		return nil
	})

	g.Go(func() error {
		recent, err := a.feedback.Signals(gctx, userID, now.Add(-feedbackWindow))
		if err != nil {
			a.logger.LogAttrs(gctx, slog.LevelWarn, "feedback signals unavailable",
				slog.String("user_id", userID), slog.Any("error", err))
			return nil
		}
		signals = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return PersonalizationContext{}, err
	}

	var degraded []string
	if historyDegraded {
		degraded = append(degraded, "performance history unavailable: assumed neutral consistency and improvement")
	}
	if healthDegraded {
		degraded = append(degraded, fmt.Sprintf("health data unavailable: readiness defaulted to %.1f", defaultReadiness))
	}

	bias, sustained := deriveFeedbackAdjustment(signals)

	return PersonalizationContext{
		Profile:             profile,
		Performance:         perf,
		Health:              health,
		RecentExerciseIDs:   recentIDs,
		FeedbackBias:        bias,
		SustainedDifficulty: sustained,
		Degraded:            degraded,
	}, nil
}
