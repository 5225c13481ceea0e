package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig collects what NewRouter mounts.
type RouterConfig struct {
	Pandals    *PandalHandler
	Auth       *AuthHandler
	CORSOrigin string
	// Observer receives per-request metrics; nil disables them.
	Observer RequestObserver
	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
}

// NewRouter builds the chi router with the global middleware stack and all
// API routes.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Observer))
	r.Use(Recoverer)
	r.Use(CORS(cfg.CORSOrigin))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	// Health
	r.Get("/health", HealthCheck)
	r.Get("/readiness", cfg.Pandals.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", Categories)

		r.Route("/pandals", func(r chi.Router) {
			r.Get("/", cfg.Pandals.ListPandals)
			r.Post("/", cfg.Pandals.CreatePandal)
			r.Get("/stats", cfg.Pandals.Stats)
			r.Get("/{id}", cfg.Pandals.GetPandal)
			r.Put("/{id}/like", cfg.Pandals.LikePandal)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.Auth.Login)
			r.Post("/register", cfg.Auth.Register)
		})
	})

	return r
}
