package personalization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/myrberg/trainwise/internal/sqlite"
)

// sqliteHistoryRepository implements WorkoutHistoryProvider on top of the
// workout_sessions and session_exercises tables.
type sqliteHistoryRepository struct {
	baseRepository
}

func newSQLiteHistoryRepository(db *sqlite.Database) *sqliteHistoryRepository {
	return &sqliteHistoryRepository{baseRepository: newBaseRepository(db)}
}

// sessionRow is one session in the rolling window.
type sessionRow struct {
	intensity       float64
	recoveryQuality float64
	completed       bool
}

// RecentPerformance summarizes the last windowSize sessions into a
// PerformanceSnapshot. Returns ErrNotFound when the user has no history so
// the aggregator can fall back to documented defaults.
func (r *sqliteHistoryRepository) RecentPerformance(
	ctx context.Context,
	userID string,
	windowSize int,
) (_ PerformanceSnapshot, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT intensity, recovery_quality, completed
		FROM workout_sessions
		WHERE user_id = ?
		ORDER BY session_date DESC
		LIMIT ?`, userID, windowSize)
	if err != nil {
		return PerformanceSnapshot{}, fmt.Errorf("query workout sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	// Newest first from the query; reverse to chronological for the
	// improvement split.
	var window []sessionRow
	for rows.Next() {
		var row sessionRow
		if err = rows.Scan(&row.intensity, &row.recoveryQuality, &row.completed); err != nil {
			return PerformanceSnapshot{}, fmt.Errorf("scan session: %w", err)
		}
		window = append([]sessionRow{row}, window...)
	}
	if err = rows.Err(); err != nil {
		return PerformanceSnapshot{}, fmt.Errorf("rows error: %w", err)
	}

	if len(window) == 0 {
		return PerformanceSnapshot{}, fmt.Errorf("no sessions for user %s: %w", userID, ErrNotFound)
	}

	return summarizeWindow(window), nil
}

// summarizeWindow derives the snapshot metrics from a chronological window.
func summarizeWindow(window []sessionRow) PerformanceSnapshot {
	var (
		intensitySum float64
		recoverySum  float64
		completed    int
	)
	for _, row := range window {
		if !row.completed {
			continue
		}
		intensitySum += row.intensity
		recoverySum += row.recoveryQuality
		completed++
	}

	snapshot := PerformanceSnapshot{
		AverageIntensity: 0,
		Consistency:      float64(completed) / float64(len(window)),
		Improvement:      0,
		RecoveryQuality:  defaultRecoveryQuality,
	}
	if completed > 0 {
		snapshot.AverageIntensity = intensitySum / float64(completed)
		snapshot.RecoveryQuality = recoverySum / float64(completed)
	}

	// Improvement compares average completed intensity of the newer half
	// against the older half of the window.
	if len(window) >= 2 {
		mid := len(window) / 2
		older := averageCompletedIntensity(window[:mid])
		newer := averageCompletedIntensity(window[mid:])
		snapshot.Improvement = newer - older
	}

	return snapshot
}

func averageCompletedIntensity(window []sessionRow) float64 {
	var sum float64
	var count int
	for _, row := range window {
		if row.completed {
			sum += row.intensity
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// RecentExerciseIDs lists distinct exercises performed since the given time.
func (r *sqliteHistoryRepository) RecentExerciseIDs(
	ctx context.Context,
	userID string,
	since time.Time,
) (_ []int, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT DISTINCT se.exercise_id
		FROM session_exercises se
		JOIN workout_sessions ws ON ws.id = se.session_id
		WHERE ws.user_id = ? AND ws.session_date >= ?
		ORDER BY se.exercise_id`, userID, since.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query recent exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var ids []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan exercise id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}

// ExerciseHistory returns per-session performance for one exercise, oldest
// first, from completed sessions only.
func (r *sqliteHistoryRepository) ExerciseHistory(
	ctx context.Context,
	userID string,
	exerciseID int,
) (_ []ExercisePerformance, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT ws.session_date, se.top_weight_kg, se.total_reps, se.sets
		FROM session_exercises se
		JOIN workout_sessions ws ON ws.id = se.session_id
		WHERE ws.user_id = ? AND se.exercise_id = ? AND ws.completed = 1
		ORDER BY ws.session_date ASC`, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query exercise history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var history []ExercisePerformance
	for rows.Next() {
		var (
			perf    ExercisePerformance
			dateStr string
		)
		if err = rows.Scan(&dateStr, &perf.TopWeightKg, &perf.TotalReps, &perf.Sets); err != nil {
			return nil, fmt.Errorf("scan exercise performance: %w", err)
		}
		if perf.Date, err = time.Parse(dateFormat, dateStr); err != nil {
			return nil, fmt.Errorf("parse session date %q: %w", dateStr, err)
		}
		history = append(history, perf)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return history, nil
}
