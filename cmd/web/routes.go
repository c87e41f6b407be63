package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		api = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(noCache(
				app.requestMetrics(app.timeout(next))))))
		}
		user = func(next http.HandlerFunc) http.Handler {
			return api(app.withUser(next))
		}
	)

	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", api(http.HandlerFunc(app.testTimeout)))
	mux.Handle("GET /metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{})) //nolint:exhaustruct // defaults

	mux.Handle("GET /api/strategies", api(http.HandlerFunc(app.strategiesGET)))
	mux.Handle("GET /api/exercises", api(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /api/exercises/{exerciseID}", api(http.HandlerFunc(app.exerciseInfoGET)))

	mux.Handle("GET /api/users/{userID}/active-exercises", user(app.activeExercisesGET))
	mux.Handle("PUT /api/users/{userID}/active-exercises", user(app.activeExercisesPUT))

	mux.Handle("POST /api/users/{userID}/plans", user(app.planPOST))
	mux.Handle("GET /api/users/{userID}/accessory-focus", user(app.accessoryFocusGET))
	mux.Handle("GET /api/users/{userID}/recent-types", user(app.recentTypesGET))
	mux.Handle("GET /api/users/{userID}/strategy-stats", user(app.strategyStatsGET))

	mux.Handle("POST /api/users/{userID}/workouts", user(app.workoutPOST))
	mux.Handle("GET /api/users/{userID}/workouts", user(app.workoutsGET))
	mux.Handle("GET /api/users/{userID}/workouts/{workoutID}", user(app.workoutGET))
	mux.Handle("DELETE /api/users/{userID}/workouts/{workoutID}", user(app.workoutDELETE))
	mux.Handle("POST /api/users/{userID}/workouts/{workoutID}/complete", user(app.workoutCompletePOST))

	mux.Handle("PUT /api/users/{userID}/workouts/{workoutID}/exercises/{exerciseID}/sets/{setIndex}",
		user(app.exerciseSetPUT))
	mux.Handle("POST /api/users/{userID}/workouts/{workoutID}/exercises/{exerciseID}/switch",
		user(app.exerciseSwitchPOST))
	mux.Handle("POST /api/users/{userID}/workouts/{workoutID}/exercises/{exerciseID}/repropose",
		user(app.exerciseReproposePOST))
	mux.Handle("GET /api/users/{userID}/workouts/{workoutID}/exercises/{exerciseID}/alternatives",
		user(app.exerciseAlternativesGET))

	mux.Handle("GET /api/users/{userID}/progression/plans", user(app.progressionPlansGET))
	mux.Handle("PUT /api/users/{userID}/progression/active-plan", user(app.activePlanPUT))
	mux.Handle("POST /api/users/{userID}/progression/premium", user(app.premiumPOST))
	mux.Handle("GET /api/users/{userID}/progression/exercises/{exerciseID}", user(app.exerciseProgressGET))

	mux.Handle("/", api(http.HandlerFunc(app.notFound)))

	return mux
}
