package e2etest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/myrjola/liftplan/internal/workout"
)

// WorkoutScenario runs one training day of the user against the API. It generates a plan of subType, starts a
// workout from it, records every prefilled set as done and completes the workout.
func (c *Client) WorkoutScenario(ctx context.Context, userID int, subType workout.SubType) (workout.Workout, error) {
	userPath := fmt.Sprintf("/api/users/%d", userID)

	var plan workout.Plan
	if err := c.expect(ctx, http.MethodPost, userPath+"/plans?sub_type="+string(subType), nil, &plan,
		http.StatusOK); err != nil {
		return workout.Workout{}, fmt.Errorf("generate plan: %w", err)
	}

	req := workout.StartWorkoutRequest{
		StrategyID:  plan.StrategyID,
		SubType:     plan.SubType,
		ExerciseIDs: make([]string, 0, len(plan.Exercises)),
	}
	for _, e := range plan.Exercises {
		req.ExerciseIDs = append(req.ExerciseIDs, e.ID)
	}
	var started workout.Workout
	if err := c.expect(ctx, http.MethodPost, userPath+"/workouts", req, &started, http.StatusCreated); err != nil {
		return workout.Workout{}, fmt.Errorf("start workout: %w", err)
	}

	workoutPath := userPath + "/workouts/" + started.ID
	for _, es := range started.ExerciseSets {
		for i, set := range es.Sets {
			set.Completed = true
			path := fmt.Sprintf("%s/exercises/%s/sets/%d", workoutPath, es.Exercise.ID, i)
			if err := c.expect(ctx, http.MethodPut, path, set, nil, http.StatusOK); err != nil {
				return workout.Workout{}, fmt.Errorf("update set %d of %s: %w", i, es.Exercise.ID, err)
			}
		}
	}

	var completed workout.Workout
	if err := c.expect(ctx, http.MethodPost, workoutPath+"/complete", nil, &completed, http.StatusOK); err != nil {
		return workout.Workout{}, fmt.Errorf("complete workout: %w", err)
	}
	return completed, nil
}

// expect sends the request and fails unless the response has the wanted status.
func (c *Client) expect(ctx context.Context, method, urlPath string, body, out any, want int) error {
	status, err := c.DoJSON(ctx, method, urlPath, body, out)
	if err != nil {
		return err
	}
	if status != want {
		return fmt.Errorf("%s %s: unexpected status code: %d", method, urlPath, status)
	}
	return nil
}
