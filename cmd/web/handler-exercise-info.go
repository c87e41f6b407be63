package main

import (
	"bytes"
	"net/http"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/workout"
)

type exerciseInfoResponse struct {
	workout.Exercise

	DescriptionHTML string `json:"description_html"`
}

// exercisesGET searches the catalog by name with q and filters by any number of muscle_group parameters.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	groups := make([]workout.MuscleGroup, 0, len(query["muscle_group"]))
	for _, g := range query["muscle_group"] {
		groups = append(groups, workout.MuscleGroup(g))
	}

	exercises, err := app.workoutService.Exercises(r.Context(), query.Get("q"), groups)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if exercises == nil {
		exercises = []workout.Exercise{}
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}

func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	exercise, err := app.workoutService.Exercise(r.Context(), r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err = app.markdown.Convert([]byte(exercise.DescriptionMarkdown), &buf); err != nil {
		app.serverError(w, r, errors.Wrap(err, "convert markdown"))
		return
	}

	app.writeJSON(w, r, http.StatusOK, exerciseInfoResponse{
		Exercise:        exercise,
		DescriptionHTML: buf.String(),
	})
}
