package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/myrjola/liftplan/internal/contexthelpers"
)

// sqlitePreferencesRepository implements preferencesRepository.
type sqlitePreferencesRepository struct {
	baseRepository
}

func (r *sqlitePreferencesRepository) Get(ctx context.Context) (Preferences, error) {
	return getPreferences(ctx, r.db.ReadOnly)
}

func getPreferences(ctx context.Context, q querier) (Preferences, error) {
	var (
		prefs       Preferences
		activeIDs   sql.NullString
		recentTypes string
	)
	err := q.QueryRowContext(ctx, `
		SELECT active_exercise_ids, recent_workout_types, active_plan_id, premium
		FROM user_preferences
		WHERE user_id = ?`, contexthelpers.UserID(ctx)).
		Scan(&activeIDs, &recentTypes, &prefs.Progression.ActivePlanID, &prefs.Progression.Premium)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{
			ActiveExerciseIDs: nil,
			RecentTypes:       nil,
			Progression:       ProgressionSettings{ActivePlanID: DefaultProgressionPlanID, Premium: false},
		}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("query preferences: %w", err)
	}

	if activeIDs.Valid {
		prefs.ActiveExerciseIDs = []string{}
		if err = json.Unmarshal([]byte(activeIDs.String), &prefs.ActiveExerciseIDs); err != nil {
			return Preferences{}, fmt.Errorf("unmarshal active exercise ids: %w", err)
		}
	}
	if err = json.Unmarshal([]byte(recentTypes), &prefs.RecentTypes); err != nil {
		return Preferences{}, fmt.Errorf("unmarshal recent workout types: %w", err)
	}
	if prefs.Progression.ActivePlanID == "" {
		prefs.Progression.ActivePlanID = DefaultProgressionPlanID
	}
	return prefs, nil
}

func (r *sqlitePreferencesRepository) Update(ctx context.Context, updateFn func(p *Preferences) (bool, error)) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		prefs, err := getPreferences(ctx, tx)
		if err != nil {
			return err
		}
		changed, err := updateFn(&prefs)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return savePreferences(ctx, tx, prefs)
	})
}

func savePreferences(ctx context.Context, tx *sql.Tx, prefs Preferences) error {
	var (
		activeIDs sql.NullString
		err       error
	)
	if prefs.ActiveExerciseIDs != nil {
		activeIDs.Valid = true
		if activeIDs.String, err = jsonColumn(prefs.ActiveExerciseIDs); err != nil {
			return err
		}
	}
	recentTypes, err := jsonColumn(prefs.RecentTypes)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, active_exercise_ids, recent_workout_types, active_plan_id, premium)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET active_exercise_ids  = excluded.active_exercise_ids,
		                                    recent_workout_types = excluded.recent_workout_types,
		                                    active_plan_id       = excluded.active_plan_id,
		                                    premium              = excluded.premium`,
		contexthelpers.UserID(ctx), activeIDs, recentTypes, prefs.Progression.ActivePlanID,
		prefs.Progression.Premium); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}
