package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/examchan-dev/examchan/internal/middleware"
	"github.com/examchan-dev/examchan/internal/middleware/metrics"
	rl "github.com/examchan-dev/examchan/internal/middleware/ratelimiter"
	"github.com/examchan-dev/examchan/internal/setup"
)

// New creates and configures a new mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit request for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	// Enable gzip compression for all responses
	r.Use(handlers.CompressHandler)

	// setup CORS for frontend
	r.Use(handlers.CORS(
		handlers.AllowedOrigins([]string{deps.Config.Public.CorsOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies))

	r.Use(metrics.Middleware)

	// Add a wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	// Per-IP backstop ahead of auth, so token-less probes are limited too
	v1.Use(mw.RateLimit(rl.New(100, 200, time.Hour), mw.GetIP))

	// Admin routes: catalog mutations cascade down to exams and threads,
	// so they stay behind the admin gate.
	admin := v1.NewRoute().Subrouter()
	admin.Use(authMw.AdminOnly())
	admin.HandleFunc("/faculties", h.CreateFaculty).Methods("POST")
	admin.HandleFunc("/faculties/{faculty}", h.DeleteFaculty).Methods("DELETE")
	admin.HandleFunc("/departments", h.CreateDepartment).Methods("POST")
	admin.HandleFunc("/departments/{department}", h.DeleteDepartment).Methods("DELETE")
	admin.HandleFunc("/courses", h.CreateCourse).Methods("POST")
	admin.HandleFunc("/courses/{course}", h.DeleteCourse).Methods("DELETE")

	// Logged-in user routes
	loggedIn := v1.NewRoute().Subrouter()
	loggedIn.Use(authMw.NeedAuth())
	loggedIn.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIdFromContext)) // 100 RPS per user

	loggedIn.HandleFunc("/faculties", h.ListFaculties).Methods("GET")
	loggedIn.HandleFunc("/departments", h.ListDepartments).Methods("GET")
	loggedIn.HandleFunc("/courses", h.ListCourses).Methods("GET")

	// Search: 10 RPS per user
	loggedIn.Handle("/search/{query}", mw.RateLimit(rl.Rps10(), mw.GetUserIdFromContext)(http.HandlerFunc(h.Search))).Methods("GET")

	loggedIn.HandleFunc("/exams", h.ListExams).Methods("GET")
	// CreateExam: 1 per minute per user
	loggedIn.Handle("/exams", mw.RateLimit(rl.New(1.0/60, 1, time.Hour), mw.GetUserIdFromContext)(http.HandlerFunc(h.CreateExam))).Methods("POST")
	loggedIn.HandleFunc("/exams/{exam}", h.GetExam).Methods("GET")
	loggedIn.HandleFunc("/exams/{exam}", h.DeleteExam).Methods("DELETE")
	loggedIn.HandleFunc("/exams/{exam}/file", h.ExamFile).Methods("GET")
	loggedIn.HandleFunc("/exams/{exam}/rate", h.RateExam).Methods("POST")
	loggedIn.HandleFunc("/exams/{exam}/favorite", h.FavoriteExam).Methods("POST")
	loggedIn.HandleFunc("/exams/{exam}/favorite", h.UnfavoriteExam).Methods("DELETE")

	loggedIn.HandleFunc("/threads", h.ListThreads).Methods("GET")
	// CreateThread: 1 per minute per user
	loggedIn.Handle("/threads", mw.RateLimit(rl.New(1.0/60, 1, time.Hour), mw.GetUserIdFromContext)(http.HandlerFunc(h.CreateThread))).Methods("POST")
	loggedIn.HandleFunc("/threads/{thread}", h.GetThread).Methods("GET")
	loggedIn.HandleFunc("/threads/{thread}", h.DeleteThread).Methods("DELETE")
	loggedIn.HandleFunc("/threads/{thread}/closed", h.ToggleClosed).Methods("PUT")
	loggedIn.HandleFunc("/threads/{thread}/tags", h.EditTags).Methods("PUT")
	loggedIn.HandleFunc("/threads/{thread}/star", h.StarThread).Methods("POST")
	loggedIn.HandleFunc("/threads/{thread}/star", h.UnstarThread).Methods("DELETE")

	// CreateComment/Reply: 1 per second per user
	commentLimiter := mw.RateLimit(rl.New(1, 1, time.Hour), mw.GetUserIdFromContext)
	loggedIn.Handle("/threads/{thread}/comments", commentLimiter(http.HandlerFunc(h.CreateComment))).Methods("POST")
	loggedIn.Handle("/threads/{thread}/comments/{comment}/replies", commentLimiter(http.HandlerFunc(h.CreateReply))).Methods("POST")
	loggedIn.HandleFunc("/threads/{thread}/comments/{comment}/like", h.ToggleLike).Methods("PUT")
	loggedIn.HandleFunc("/threads/{thread}/comments/{comment}", h.EditComment).Methods("PUT")
	loggedIn.HandleFunc("/threads/{thread}/comments/{comment}", h.DeleteComment).Methods("DELETE")

	return r
}
