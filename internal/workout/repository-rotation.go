package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrjola/liftplan/internal/contexthelpers"
)

// sqliteRotationRepository implements RotationStore.
type sqliteRotationRepository struct {
	baseRepository
}

func (r *sqliteRotationRepository) LoadRotationState(ctx context.Context) (RotationState, error) {
	var s RotationState
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT core_index, upper_index, upper_type_index, lower_index, lower_type_index
		FROM rotation_states
		WHERE user_id = ?`, contexthelpers.UserID(ctx)).
		Scan(&s.CoreIndex, &s.UpperIndex, &s.UpperTypeIndex, &s.LowerIndex, &s.LowerTypeIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return RotationState{}, nil
	}
	if err != nil {
		return RotationState{}, fmt.Errorf("query rotation state: %w", err)
	}
	return s, nil
}

func (r *sqliteRotationRepository) SaveRotationState(ctx context.Context, s RotationState) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO rotation_states (user_id, core_index, upper_index, upper_type_index, lower_index, lower_type_index)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET core_index       = excluded.core_index,
		                                    upper_index      = excluded.upper_index,
		                                    upper_type_index = excluded.upper_type_index,
		                                    lower_index      = excluded.lower_index,
		                                    lower_type_index = excluded.lower_type_index`,
		contexthelpers.UserID(ctx), s.CoreIndex, s.UpperIndex, s.UpperTypeIndex, s.LowerIndex,
		s.LowerTypeIndex); err != nil {
		return fmt.Errorf("upsert rotation state: %w", err)
	}
	return nil
}
