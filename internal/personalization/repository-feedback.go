package personalization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/myrberg/trainwise/internal/sqlite"
)

// sqliteFeedbackRepository implements FeedbackStore on top of the
// feedback_signals table.
type sqliteFeedbackRepository struct {
	baseRepository
}

func newSQLiteFeedbackRepository(db *sqlite.Database) *sqliteFeedbackRepository {
	return &sqliteFeedbackRepository{baseRepository: newBaseRepository(db)}
}

func (r *sqliteFeedbackRepository) Record(ctx context.Context, signal FeedbackSignal) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO feedback_signals
			(user_id, workout_id, difficulty, enjoyment, completion, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		signal.UserID,
		signal.WorkoutID,
		signal.Feedback.Difficulty,
		signal.Feedback.Enjoyment,
		signal.Feedback.Completion,
		signal.CreatedAt.UTC().Format(timestampFormat),
	)
	if err != nil {
		return fmt.Errorf("insert feedback signal: %w", err)
	}
	return nil
}

// Signals returns signals created at or after since, newest first.
func (r *sqliteFeedbackRepository) Signals(
	ctx context.Context,
	userID string,
	since time.Time,
) (_ []FeedbackSignal, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT user_id, workout_id, difficulty, enjoyment, completion, created_at
		FROM feedback_signals
		WHERE user_id = ? AND created_at >= ?
		ORDER BY created_at DESC`, userID, since.UTC().Format(timestampFormat))
	if err != nil {
		return nil, fmt.Errorf("query feedback signals: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var signals []FeedbackSignal
	for rows.Next() {
		var (
			signal    FeedbackSignal
			createdAt string
		)
		if err = rows.Scan(
			&signal.UserID,
			&signal.WorkoutID,
			&signal.Feedback.Difficulty,
			&signal.Feedback.Enjoyment,
			&signal.Feedback.Completion,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan feedback signal: %w", err)
		}
		if signal.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		signals = append(signals, signal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return signals, nil
}
