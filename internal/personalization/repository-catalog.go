package personalization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrberg/trainwise/internal/sqlite"
)

// sqliteCatalogRepository implements ExerciseCatalog on top of the exercises,
// exercise_goals and exercise_equipment tables.
type sqliteCatalogRepository struct {
	baseRepository
}

func newSQLiteCatalogRepository(db *sqlite.Database) *sqliteCatalogRepository {
	return &sqliteCatalogRepository{baseRepository: newBaseRepository(db)}
}

// ListCandidates returns descriptors ordered by ID, which matches catalog
// insertion order and keeps selection ties deterministic.
func (r *sqliteCatalogRepository) ListCandidates(
	ctx context.Context,
	filter CatalogFilter,
) (_ []ExerciseDescriptor, err error) {
	query := `
		SELECT id, name, category, level, description_markdown
		FROM exercises`
	args := []any{}
	if filter.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY id`

	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var descriptors []ExerciseDescriptor
	for rows.Next() {
		var descriptor ExerciseDescriptor
		if err = rows.Scan(
			&descriptor.ID,
			&descriptor.Name,
			&descriptor.Category,
			&descriptor.Level,
			&descriptor.DescriptionMarkdown,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		descriptors = append(descriptors, descriptor)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range descriptors {
		if err = r.attachSets(ctx, &descriptors[i]); err != nil {
			return nil, err
		}
	}
	return descriptors, nil
}

// Exercise returns a single descriptor or ErrNotFound.
func (r *sqliteCatalogRepository) Exercise(ctx context.Context, id int) (ExerciseDescriptor, error) {
	var descriptor ExerciseDescriptor
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, category, level, description_markdown
		FROM exercises
		WHERE id = ?`, id).Scan(
		&descriptor.ID,
		&descriptor.Name,
		&descriptor.Category,
		&descriptor.Level,
		&descriptor.DescriptionMarkdown,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ExerciseDescriptor{}, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ExerciseDescriptor{}, fmt.Errorf("query exercise: %w", err)
	}

	if err = r.attachSets(ctx, &descriptor); err != nil {
		return ExerciseDescriptor{}, err
	}
	return descriptor, nil
}

// attachSets fills the goal and equipment sets of a descriptor.
func (r *sqliteCatalogRepository) attachSets(ctx context.Context, descriptor *ExerciseDescriptor) error {
	var err error
	if descriptor.Goals, err = r.queryStrings(ctx,
		`SELECT goal FROM exercise_goals WHERE exercise_id = ? ORDER BY goal`, descriptor.ID); err != nil {
		return fmt.Errorf("query exercise goals: %w", err)
	}
	if descriptor.Equipment, err = r.queryStrings(ctx,
		`SELECT equipment FROM exercise_equipment WHERE exercise_id = ? ORDER BY equipment`, descriptor.ID); err != nil {
		return fmt.Errorf("query exercise equipment: %w", err)
	}
	return nil
}
