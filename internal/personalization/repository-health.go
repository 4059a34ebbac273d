package personalization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/myrberg/trainwise/internal/sqlite"
)

// healthFreshness bounds how old a snapshot may be before it no longer
// reflects current readiness.
const healthFreshness = 24 * time.Hour

// sqliteHealthRepository implements HealthDataProvider on top of the
// health_snapshots table.
type sqliteHealthRepository struct {
	baseRepository
}

func newSQLiteHealthRepository(db *sqlite.Database) *sqliteHealthRepository {
	return &sqliteHealthRepository{baseRepository: newBaseRepository(db)}
}

// CurrentSnapshot returns the newest snapshot taken within the freshness
// window, or ErrNotFound when none exists.
func (r *sqliteHealthRepository) CurrentSnapshot(
	ctx context.Context,
	userID string,
	now time.Time,
) (HealthSnapshot, error) {
	cutoff := now.Add(-healthFreshness).UTC().Format(timestampFormat)

	var (
		snapshot HealthSnapshot
		takenAt  string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT taken_at, sleep_hours, stress_level, energy_level, heart_rate, hrv
		FROM health_snapshots
		WHERE user_id = ? AND taken_at >= ?
		ORDER BY taken_at DESC
		LIMIT 1`, userID, cutoff).Scan(
		&takenAt,
		&snapshot.SleepHours,
		&snapshot.StressLevel,
		&snapshot.EnergyLevel,
		&snapshot.HeartRate,
		&snapshot.HRV,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return HealthSnapshot{}, fmt.Errorf("no fresh health snapshot for user %s: %w", userID, ErrNotFound)
	case err != nil:
		return HealthSnapshot{}, fmt.Errorf("query health snapshot: %w", err)
	}

	if snapshot.TakenAt, err = time.Parse(timestampFormat, takenAt); err != nil {
		return HealthSnapshot{}, fmt.Errorf("parse taken_at %q: %w", takenAt, err)
	}
	return snapshot, nil
}

// RecordSnapshot stores a metrics sample from a wearable sync.
func (r *sqliteHealthRepository) RecordSnapshot(
	ctx context.Context,
	userID string,
	snapshot HealthSnapshot,
) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO health_snapshots
			(user_id, taken_at, sleep_hours, stress_level, energy_level, heart_rate, hrv)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID,
		snapshot.TakenAt.UTC().Format(timestampFormat),
		snapshot.SleepHours,
		snapshot.StressLevel,
		snapshot.EnergyLevel,
		snapshot.HeartRate,
		snapshot.HRV,
	)
	if err != nil {
		return fmt.Errorf("insert health snapshot: %w", err)
	}
	return nil
}
