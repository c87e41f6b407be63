package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/workout"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write json response", errors.SlogError(err))
	}
}

// decodeJSON reads the request body into v. Unknown fields are rejected.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// handleError maps workout service errors to responses. Anything unrecognised is a server error.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var consecutive *workout.ConsecutiveTypeError
	switch {
	case errors.As(err, &consecutive):
		app.clientError(w, r, http.StatusConflict, consecutive.Error())
	case errors.Is(err, workout.ErrNotFound):
		app.notFound(w, r)
	case errors.Is(err, workout.ErrWorkoutCompleted):
		app.clientError(w, r, http.StatusConflict, workout.ErrWorkoutCompleted.Error())
	case errors.Is(err, workout.ErrInvalidSet):
		app.clientError(w, r, http.StatusBadRequest, workout.ErrInvalidSet.Error())
	case errors.Is(err, workout.ErrUnknownStrategy):
		app.clientError(w, r, http.StatusBadRequest, workout.ErrUnknownStrategy.Error())
	default:
		app.serverError(w, r, err)
	}
}

// parseSubType reads the sub_type query parameter. A missing value means full body.
func (app *application) parseSubType(w http.ResponseWriter, r *http.Request, value string) (workout.SubType, bool) {
	subType, ok := workout.ParseSubType(value)
	if !ok {
		app.clientError(w, r, http.StatusBadRequest, "invalid sub_type")
		return "", false
	}
	return subType, true
}

// parseSetIndexParam parses the "setIndex" path parameter. On failure it responds with 404.
func (app *application) parseSetIndexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	setIndex, err := strconv.Atoi(r.PathValue("setIndex"))
	if err != nil || setIndex < 0 {
		app.notFound(w, r)
		return 0, false
	}
	return setIndex, true
}
