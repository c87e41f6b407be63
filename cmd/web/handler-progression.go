package main

import (
	"net/http"
)

type activePlanRequest struct {
	PlanID string `json:"plan_id"`
}

type activePlanResponse struct {
	ActivePlanID string `json:"active_plan_id"`
}

func (app *application) progressionPlansGET(w http.ResponseWriter, r *http.Request) {
	overview, err := app.workoutService.ProgressionPlans(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, overview)
}

// activePlanPUT responds with the active plan after the change. Unknown plans and premium plans of free users
// leave it unchanged.
func (app *application) activePlanPUT(w http.ResponseWriter, r *http.Request) {
	var req activePlanRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	active, err := app.workoutService.SetActivePlan(r.Context(), req.PlanID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, activePlanResponse{ActivePlanID: active})
}

func (app *application) premiumPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.UpgradeToPremium(r.Context()); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.progressionPlansGET(w, r)
}

func (app *application) exerciseProgressGET(w http.ResponseWriter, r *http.Request) {
	progress, err := app.workoutService.ExerciseProgress(r.Context(), r.PathValue("exerciseID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, progress)
}
