// Package redisstore keeps the accessory rotation state in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/myrjola/liftplan/internal/contexthelpers"
	"github.com/myrjola/liftplan/internal/workout"
)

const keyPrefix = "rotation-state::"

// RotationStore implements workout.RotationStore with one JSON value per user.
type RotationStore struct {
	client redis.Cmdable
	logger *slog.Logger
}

func NewRotationStore(client redis.Cmdable, logger *slog.Logger) *RotationStore {
	return &RotationStore{
		client: client,
		logger: logger,
	}
}

func key(ctx context.Context) string {
	return keyPrefix + strconv.Itoa(contexthelpers.UserID(ctx))
}

// LoadRotationState returns the zero state when the user has none stored.
func (s *RotationStore) LoadRotationState(ctx context.Context) (workout.RotationState, error) {
	val, err := s.client.Get(ctx, key(ctx)).Result()
	if errors.Is(err, redis.Nil) {
		return workout.RotationState{}, nil
	}
	if err != nil {
		return workout.RotationState{}, fmt.Errorf("get rotation state: %w", err)
	}

	var state workout.RotationState
	if err = json.Unmarshal([]byte(val), &state); err != nil {
		return workout.RotationState{}, fmt.Errorf("unmarshal rotation state: %w", err)
	}
	return state, nil
}

func (s *RotationStore) SaveRotationState(ctx context.Context, state workout.RotationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal rotation state: %w", err)
	}
	if err = s.client.Set(ctx, key(ctx), string(b), 0).Err(); err != nil {
		return fmt.Errorf("set rotation state: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "saved rotation state", slog.String("key", key(ctx)))
	return nil
}
