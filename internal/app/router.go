package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/candor-retail/candor-backend/internal/attendance"
	"github.com/candor-retail/candor-backend/internal/auth"
	"github.com/candor-retail/candor-backend/internal/interunit"
	"github.com/candor-retail/candor-backend/internal/inward"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	TokenManager      *auth.TokenManager
	AuthHandler       *auth.Handler
	AttendanceHandler *attendance.Handler
	InterunitHandler  *interunit.Handler
	InwardHandler     *inward.Handler
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(AuthRateLimit())
		params.AuthHandler.MountRoutes(r)
	})

	r.Route("/attendance", func(r chi.Router) {
		r.Use(auth.Middleware(params.TokenManager))
		params.AttendanceHandler.MountRoutes(r)
	})

	r.Route("/interunit", func(r chi.Router) {
		r.Use(auth.Middleware(params.TokenManager))
		params.InterunitHandler.MountRoutes(r)
	})

	r.Route("/inward", func(r chi.Router) {
		r.Use(auth.Middleware(params.TokenManager))
		params.InwardHandler.MountRoutes(r)
	})

	return r
}
