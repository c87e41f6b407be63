package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// sqliteExerciseRepository implements exerciseRepository.
type sqliteExerciseRepository struct {
	baseRepository
}

const exerciseColumns = `id, name, description_markdown, categories, tags, muscle_groups, equipment`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (Exercise, error) {
	var (
		e                                          Exercise
		categories, tags, muscleGroups, equipment string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.DescriptionMarkdown,
		&categories, &tags, &muscleGroups, &equipment); err != nil {
		return Exercise{}, fmt.Errorf("scan exercise: %w", err)
	}
	if err := errors.Join(
		json.Unmarshal([]byte(categories), &e.Categories),
		json.Unmarshal([]byte(tags), &e.Tags),
		json.Unmarshal([]byte(muscleGroups), &e.MuscleGroups),
		json.Unmarshal([]byte(equipment), &e.Equipment),
	); err != nil {
		return Exercise{}, fmt.Errorf("unmarshal exercise %s: %w", e.ID, err)
	}
	return e, nil
}

// Get retrieves a single exercise by ID.
func (r *sqliteExerciseRepository) Get(ctx context.Context, id string) (Exercise, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	exercise, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("query exercise: %w", err)
	}
	return exercise, nil
}

// List returns the whole catalog.
func (r *sqliteExerciseRepository) List(ctx context.Context) ([]Exercise, error) {
	return r.query(ctx, `SELECT `+exerciseColumns+` FROM exercises ORDER BY name`)
}

// ByMuscleGroups returns exercises training at least one of the groups.
func (r *sqliteExerciseRepository) ByMuscleGroups(ctx context.Context, groups []MuscleGroup) ([]Exercise, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(groups)), ",")
	args := make([]any, len(groups))
	for i, g := range groups {
		args[i] = string(g)
	}
	return r.query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		WHERE EXISTS (SELECT 1 FROM json_each(exercises.muscle_groups) WHERE value IN (`+placeholders+`))
		ORDER BY name`, args...)
}

// Search matches term case-insensitively against name, description and categories.
func (r *sqliteExerciseRepository) Search(ctx context.Context, term string) ([]Exercise, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(term)) + "%"
	return r.query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises
		WHERE name LIKE ?1 ESCAPE '\'
		   OR description_markdown LIKE ?1 ESCAPE '\'
		   OR EXISTS (SELECT 1 FROM json_each(exercises.categories) WHERE value LIKE ?1 ESCAPE '\')
		ORDER BY name`, pattern)
}

func (r *sqliteExerciseRepository) query(ctx context.Context, query string, args ...any) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var exercise Exercise
		if exercise, err = scanExercise(rows); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
