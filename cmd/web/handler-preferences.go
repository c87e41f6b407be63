package main

import (
	"net/http"

	"github.com/myrjola/liftplan/internal/workout"
)

type activeExercisesRequest struct {
	ExerciseIDs []string `json:"exercise_ids"`
}

func (app *application) activeExercisesGET(w http.ResponseWriter, r *http.Request) {
	active, err := app.workoutService.ActiveExercises(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if active == nil {
		active = []workout.Exercise{}
	}
	app.writeJSON(w, r, http.StatusOK, active)
}

// activeExercisesPUT replaces the exercises plans are generated from and responds with the new active set.
func (app *application) activeExercisesPUT(w http.ResponseWriter, r *http.Request) {
	var req activeExercisesRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ExerciseIDs == nil {
		app.clientError(w, r, http.StatusBadRequest, "exercise_ids is required")
		return
	}
	if err := app.workoutService.SetActiveExercises(r.Context(), req.ExerciseIDs); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.activeExercisesGET(w, r)
}
