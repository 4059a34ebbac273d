package personalization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrberg/trainwise/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

// baseRepository carries the shared database handle.
type baseRepository struct {
	db *sqlite.Database
}

func newBaseRepository(db *sqlite.Database) baseRepository {
	return baseRepository{db: db}
}

// queryStrings collects a single-column string result set.
func (r baseRepository) queryStrings(ctx context.Context, query string, args ...any) (_ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var values []string
	for rows.Next() {
		var value string
		if err = rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, value)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return values, nil
}

// repository bundles the SQLite-backed implementations of the engine's data
// ports, one per aggregate.
type repository struct {
	users    *sqliteUserRepository
	history  *sqliteHistoryRepository
	health   *sqliteHealthRepository
	feedback *sqliteFeedbackRepository
	catalog  *sqliteCatalogRepository
}

// repositoryFactory creates repositories sharing a database handle.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{db: db, logger: logger}
}

func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		users:    newSQLiteUserRepository(f.db),
		history:  newSQLiteHistoryRepository(f.db),
		health:   newSQLiteHealthRepository(f.db),
		feedback: newSQLiteFeedbackRepository(f.db),
		catalog:  newSQLiteCatalogRepository(f.db),
	}
}
