package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stanstork/timeline-notify/internal/authz"
	"github.com/stanstork/timeline-notify/internal/handlers"
	"github.com/stanstork/timeline-notify/internal/plugin"
)

// NewRouter sets up the host API and mounts every initialized plugin.
// Paths are matched encoded and uncleaned so that plugin path segments may
// be empty or contain escaped slashes.
func NewRouter(
	registry *plugin.Registry,
	auth *handlers.AuthHandler,
	timeline *handlers.TimelineHandler,
	errorReports *handlers.ErrorReportHandler,
) *mux.Router {
	router := mux.NewRouter().UseEncodedPath().SkipClean(true)

	// Health check route
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	// Public auth endpoint
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)

	// Plugin routes authenticate on their own
	registry.Mount(router)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware, authz.RequireSubject)
	api.HandleFunc("/events", timeline.Events).Methods(http.MethodGet)
	api.HandleFunc("/errors", errorReports.List).Methods(http.MethodGet)

	return router
}
