package main

import (
	"net/http"

	"github.com/myrjola/liftplan/internal/workout"
)

// exerciseSetPUT records the weight, reps and completion of a single set.
func (app *application) exerciseSetPUT(w http.ResponseWriter, r *http.Request) {
	setIndex, ok := app.parseSetIndexParam(w, r)
	if !ok {
		return
	}
	var set workout.Set
	if err := decodeJSON(r, &set); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := app.workoutService.UpdateSet(r.Context(), r.PathValue("workoutID"), r.PathValue("exerciseID"),
		setIndex, set)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, updated)
}

func (app *application) exerciseSwitchPOST(w http.ResponseWriter, r *http.Request) {
	updated, err := app.workoutService.SwitchExercise(r.Context(), r.PathValue("workoutID"), r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, updated)
}

func (app *application) exerciseReproposePOST(w http.ResponseWriter, r *http.Request) {
	updated, err := app.workoutService.ReproposeExercise(r.Context(), r.PathValue("workoutID"),
		r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, updated)
}

func (app *application) exerciseAlternativesGET(w http.ResponseWriter, r *http.Request) {
	alternatives, err := app.workoutService.Alternatives(r.Context(), r.PathValue("workoutID"),
		r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if alternatives == nil {
		alternatives = []workout.Exercise{}
	}
	app.writeJSON(w, r, http.StatusOK, alternatives)
}
