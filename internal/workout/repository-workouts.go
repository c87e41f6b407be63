package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrjola/liftplan/internal/contexthelpers"
)

// sqliteWorkoutRepository implements workoutRepository.
type sqliteWorkoutRepository struct {
	baseRepository
}

// List returns the workouts of the user, newest first.
func (r *sqliteWorkoutRepository) List(ctx context.Context) ([]Workout, error) {
	userID := contexthelpers.UserID(ctx)
	workouts, err := r.query(ctx, r.db.ReadOnly, `
		SELECT id, date, completed, sub_type, strategy_id
		FROM workouts
		WHERE user_id = ?
		ORDER BY date DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	if err = r.loadExerciseSets(ctx, r.db.ReadOnly, userID, workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *sqliteWorkoutRepository) Get(ctx context.Context, id string) (Workout, error) {
	return r.get(ctx, r.db.ReadOnly, id)
}

func (r *sqliteWorkoutRepository) get(ctx context.Context, q querier, id string) (Workout, error) {
	userID := contexthelpers.UserID(ctx)
	workouts, err := r.query(ctx, q, `
		SELECT id, date, completed, sub_type, strategy_id
		FROM workouts
		WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return Workout{}, err
	}
	if len(workouts) == 0 {
		return Workout{}, fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	if err = r.loadExerciseSets(ctx, q, userID, workouts); err != nil {
		return Workout{}, err
	}
	return workouts[0], nil
}

func (r *sqliteWorkoutRepository) Create(ctx context.Context, w Workout) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		userID := contexthelpers.UserID(ctx)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO workouts (user_id, id, date, completed, sub_type, strategy_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			userID, w.ID, formatTimestamp(w.Date), w.Completed, string(w.SubType), w.StrategyID); err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}
		return insertExerciseSets(ctx, tx, userID, w)
	})
}

func (r *sqliteWorkoutRepository) Update(ctx context.Context, id string, updateFn func(w *Workout) (bool, error)) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		w, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		changed, err := updateFn(&w)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		userID := contexthelpers.UserID(ctx)
		if _, err = tx.ExecContext(ctx, `
			UPDATE workouts SET date = ?, completed = ?, sub_type = ?, strategy_id = ?
			WHERE user_id = ? AND id = ?`,
			formatTimestamp(w.Date), w.Completed, string(w.SubType), w.StrategyID, userID, id); err != nil {
			return fmt.Errorf("update workout: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `
			DELETE FROM workout_exercise_sets WHERE user_id = ? AND workout_id = ?`, userID, id); err != nil {
			return fmt.Errorf("delete exercise sets: %w", err)
		}
		return insertExerciseSets(ctx, tx, userID, w)
	})
}

// Complete marks the workout completed and pushes its sub-type into the recent workout types of the user. Both
// changes are committed together so a failed push can be retried.
func (r *sqliteWorkoutRepository) Complete(ctx context.Context, id string) (Workout, error) {
	var completed Workout
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		w, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if w.Completed {
			return ErrWorkoutCompleted
		}
		if _, err = tx.ExecContext(ctx, `UPDATE workouts SET completed = 1 WHERE user_id = ? AND id = ?`,
			contexthelpers.UserID(ctx), id); err != nil {
			return fmt.Errorf("complete workout: %w", err)
		}
		w.Completed = true
		completed = w

		if w.SubType == "" {
			return nil
		}
		prefs, err := getPreferences(ctx, tx)
		if err != nil {
			return err
		}
		prefs.RecentTypes = prefs.RecentTypes.Push(w.SubType)
		return savePreferences(ctx, tx, prefs)
	})
	if err != nil {
		return Workout{}, err
	}
	return completed, nil
}

func (r *sqliteWorkoutRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM workouts WHERE user_id = ? AND id = ?`,
		contexthelpers.UserID(ctx), id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	return nil
}

func insertExerciseSets(ctx context.Context, tx *sql.Tx, userID int, w Workout) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO workout_exercise_sets (user_id, workout_id, position, exercise_id, set_number, weight_kg, reps,
		                                   completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert exercise set: %w", err)
	}
	defer stmt.Close()

	for position, es := range w.ExerciseSets {
		for setNumber, s := range es.Sets {
			if _, err = stmt.ExecContext(ctx, userID, w.ID, position, es.Exercise.ID, setNumber,
				s.WeightKg, s.Reps, s.Completed); err != nil {
				return fmt.Errorf("insert exercise set %s/%d: %w", es.Exercise.ID, setNumber, err)
			}
		}
	}
	return nil
}

func (r *sqliteWorkoutRepository) query(ctx context.Context, q querier, query string, args ...any) (
	_ []Workout, err error,
) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var workouts []Workout
	for rows.Next() {
		var (
			w       Workout
			date    string
			subType string
		)
		if err = rows.Scan(&w.ID, &date, &w.Completed, &subType, &w.StrategyID); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		if w.Date, err = parseTimestamp(date); err != nil {
			return nil, err
		}
		w.SubType = SubType(subType)
		workouts = append(workouts, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return workouts, nil
}

// loadExerciseSets fills in the exercise sets of workouts in position and set order.
func (r *sqliteWorkoutRepository) loadExerciseSets(ctx context.Context, q querier, userID int, workouts []Workout) (
	err error,
) {
	if len(workouts) == 0 {
		return nil
	}
	index := make(map[string]int, len(workouts))
	for i, w := range workouts {
		index[w.ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT wes.workout_id, wes.position, wes.weight_kg, wes.reps, wes.completed,
		       e.id, e.name, e.description_markdown, e.categories, e.tags, e.muscle_groups, e.equipment
		FROM workout_exercise_sets wes
		JOIN exercises e ON e.id = wes.exercise_id
		WHERE wes.user_id = ?
		ORDER BY wes.workout_id, wes.position, wes.set_number`, userID)
	if err != nil {
		return fmt.Errorf("query exercise sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	for rows.Next() {
		var (
			workoutID string
			position  int
			set       Set
			exercise  Exercise
		)
		scan := scanFunc(func(dest ...any) error {
			return rows.Scan(append([]any{&workoutID, &position, &set.WeightKg, &set.Reps, &set.Completed},
				dest...)...)
		})
		if exercise, err = scanExercise(scan); err != nil {
			return fmt.Errorf("scan exercise set: %w", err)
		}
		i, ok := index[workoutID]
		if !ok {
			continue
		}
		w := &workouts[i]
		for len(w.ExerciseSets) <= position {
			w.ExerciseSets = append(w.ExerciseSets, ExerciseSet{Exercise: Exercise{}, Sets: nil})
		}
		w.ExerciseSets[position].Exercise = exercise
		w.ExerciseSets[position].Sets = append(w.ExerciseSets[position].Sets, set)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}

// scanFunc adapts a closure to rowScanner.
type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error {
	return f(dest...)
}
