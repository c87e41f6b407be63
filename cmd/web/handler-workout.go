package main

import (
	"net/http"

	"github.com/myrjola/liftplan/internal/workout"
)

// workoutPOST starts a workout from the exercises of a plan the user accepted.
func (app *application) workoutPOST(w http.ResponseWriter, r *http.Request) {
	var req workout.StartWorkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	subType, ok := app.parseSubType(w, r, string(req.SubType))
	if !ok {
		return
	}
	req.SubType = subType
	if len(req.ExerciseIDs) == 0 {
		app.clientError(w, r, http.StatusBadRequest, "exercise_ids is required")
		return
	}

	started, err := app.workoutService.StartWorkout(r.Context(), req)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, started)
}

func (app *application) workoutsGET(w http.ResponseWriter, r *http.Request) {
	workouts, err := app.workoutService.ListWorkouts(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if workouts == nil {
		workouts = []workout.Workout{}
	}
	app.writeJSON(w, r, http.StatusOK, workouts)
}

func (app *application) workoutGET(w http.ResponseWriter, r *http.Request) {
	found, err := app.workoutService.GetWorkout(r.Context(), r.PathValue("workoutID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, found)
}

func (app *application) workoutDELETE(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.DeleteWorkout(r.Context(), r.PathValue("workoutID")); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) workoutCompletePOST(w http.ResponseWriter, r *http.Request) {
	completed, err := app.workoutService.CompleteWorkout(r.Context(), r.PathValue("workoutID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, completed)
}
