package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/loglens/loglens/internal/api/middleware"
	"github.com/loglens/loglens/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler        http.HandlerFunc
	AuthHandler          http.HandlerFunc
	IngestHandler        http.HandlerFunc
	ListLogsHandler      http.HandlerFunc
	ClearLogsHandler     http.HandlerFunc
	DeleteAccountHandler http.HandlerFunc
	StreamHandler        http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public routes
	r.Get("/api/health", orNotImplemented(deps.HealthHandler))
	r.Post("/api/auth", orNotImplemented(deps.AuthHandler))

	// The stream handler authenticates itself (token may arrive as a query
	// parameter on WebSocket dials).
	r.Get("/api/stream", orNotImplemented(deps.StreamHandler))

	// Bearer-protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)

		r.With(deps.RateLimit.Limit).Post("/api/log", orNotImplemented(deps.IngestHandler))

		r.Get("/api/logs", orNotImplemented(deps.ListLogsHandler))
		r.Delete("/api/logs", orNotImplemented(deps.ClearLogsHandler))
		r.Delete("/api/account", orNotImplemented(deps.DeleteAccountHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "Endpoint not yet implemented")
	}
}
