package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/liftplan/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// exerciseRepository is the exercise catalog collaborator.
type exerciseRepository interface {
	// List returns the whole catalog ordered by name.
	List(ctx context.Context) ([]Exercise, error)
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (Exercise, error)
	// ByMuscleGroups returns the exercises training at least one of the groups.
	ByMuscleGroups(ctx context.Context, groups []MuscleGroup) ([]Exercise, error)
	// Search matches the term case-insensitively against name, description and categories.
	Search(ctx context.Context, term string) ([]Exercise, error)
}

// workoutRepository stores the workout history of the user in the context.
type workoutRepository interface {
	// List returns all workouts, newest first.
	List(ctx context.Context) ([]Workout, error)
	Get(ctx context.Context, id string) (Workout, error)
	Create(ctx context.Context, w Workout) error
	// Update loads the workout, applies updateFn and saves the result when updateFn reports a change.
	Update(ctx context.Context, id string, updateFn func(w *Workout) (bool, error)) error
	// Complete returns ErrWorkoutCompleted when the workout already is.
	Complete(ctx context.Context, id string) (Workout, error)
	Delete(ctx context.Context, id string) error
}

// Preferences is the per-user state that is not workout history.
type Preferences struct {
	// ActiveExerciseIDs is nil until the user picks their exercises.
	ActiveExerciseIDs []string
	RecentTypes       RecentTypes
	Progression       ProgressionSettings
}

// preferencesRepository stores the preferences of the user in the context.
type preferencesRepository interface {
	Get(ctx context.Context) (Preferences, error)
	Update(ctx context.Context, updateFn func(p *Preferences) (bool, error)) error
}

// repository bundles the stores the service works with.
type repository struct {
	exercises   exerciseRepository
	workouts    workoutRepository
	preferences preferencesRepository
	rotation    RotationStore
}

func newSQLiteRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	base := newBaseRepository(db, logger)
	return &repository{
		exercises:   &sqliteExerciseRepository{baseRepository: base},
		workouts:    &sqliteWorkoutRepository{baseRepository: base},
		preferences: &sqlitePreferencesRepository{baseRepository: base},
		rotation:    &sqliteRotationRepository{baseRepository: base},
	}
}

type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{
		db:     db,
		logger: logger,
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a read-write transaction and commits if fn succeeds.
func (r baseRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// jsonColumn encodes v for a JSON text column. Nil slices are stored as empty arrays.
func jsonColumn[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(b), nil
}
