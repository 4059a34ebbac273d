package main

import "net/http"

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	api := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logAndTraceRequest(secureHeaders(
			app.crossOriginProtection(noCache(app.timeout(next))))))
	}

	mux.Handle("POST /api/users/{userID}/personalize", api(http.HandlerFunc(app.personalizePOST)))
	mux.Handle("POST /api/users/{userID}/workouts/{workoutID}/feedback", api(http.HandlerFunc(app.feedbackPOST)))
	mux.Handle("GET /api/users/{userID}/exercises/{exerciseID}/overload-plan",
		api(http.HandlerFunc(app.overloadPlanGET)))
	mux.Handle("POST /api/users/{userID}/health-snapshots", api(http.HandlerFunc(app.healthSnapshotPOST)))

	mux.Handle("GET /api/exercises/{exerciseID}/info", api(http.HandlerFunc(app.exerciseInfoGET)))

	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))

	mux.Handle("/", api(http.HandlerFunc(app.notFound)))

	return mux
}
