package main

import (
	"net/http"

	"github.com/myrjola/liftplan/internal/workout"
)

type recentTypesResponse struct {
	RecentTypes workout.RecentTypes      `json:"recent_types"`
	CanGenerate map[workout.SubType]bool `json:"can_generate"`
}

func (app *application) strategiesGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, app.workoutService.Strategies())
}

// planPOST generates a plan for the sub_type and strategy query parameters. Both are optional.
func (app *application) planPOST(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	subType, ok := app.parseSubType(w, r, query.Get("sub_type"))
	if !ok {
		return
	}

	plan, err := app.workoutService.GeneratePlan(r.Context(), subType, query.Get("strategy"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, plan)
}

func (app *application) accessoryFocusGET(w http.ResponseWriter, r *http.Request) {
	focus, err := app.workoutService.AccessoryFocus(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, focus)
}

func (app *application) recentTypesGET(w http.ResponseWriter, r *http.Request) {
	recent, err := app.workoutService.RecentTypes(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if recent == nil {
		recent = workout.RecentTypes{}
	}

	resp := recentTypesResponse{
		RecentTypes: recent,
		CanGenerate: make(map[workout.SubType]bool),
	}
	for _, subType := range []workout.SubType{
		workout.SubTypeFullBody,
		workout.SubTypeUpperBody,
		workout.SubTypeLowerBody,
	} {
		resp.CanGenerate[subType] = recent.CanGenerate(subType)
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

func (app *application) strategyStatsGET(w http.ResponseWriter, r *http.Request) {
	stats, err := app.workoutService.StrategyStats(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if stats == nil {
		stats = []workout.StrategyStats{}
	}
	app.writeJSON(w, r, http.StatusOK, stats)
}
