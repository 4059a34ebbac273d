package personalization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrberg/trainwise/internal/sqlite"
)

// sqliteUserRepository implements UserRepository.
type sqliteUserRepository struct {
	baseRepository
}

func newSQLiteUserRepository(db *sqlite.Database) *sqliteUserRepository {
	return &sqliteUserRepository{baseRepository: newBaseRepository(db)}
}

// Profile retrieves a user profile with its goal and equipment sets.
func (r *sqliteUserRepository) Profile(ctx context.Context, userID string) (UserProfile, error) {
	var profile UserProfile
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, fitness_level, age, weight_kg, height_cm
		FROM users
		WHERE id = ?`, userID).Scan(
		&profile.ID,
		&profile.FitnessLevel,
		&profile.Age,
		&profile.WeightKg,
		&profile.HeightCm,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return UserProfile{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("query user profile: %w", err)
	}

	if profile.Goals, err = r.queryStrings(ctx,
		`SELECT goal FROM user_goals WHERE user_id = ? ORDER BY goal`, userID); err != nil {
		return UserProfile{}, fmt.Errorf("query user goals: %w", err)
	}
	if profile.Equipment, err = r.queryStrings(ctx,
		`SELECT equipment FROM user_equipment WHERE user_id = ? ORDER BY equipment`, userID); err != nil {
		return UserProfile{}, fmt.Errorf("query user equipment: %w", err)
	}

	return profile, nil
}

