package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/guidepost-hq/guidepost/internal/accounts"
	"github.com/guidepost-hq/guidepost/internal/auth"
	"github.com/guidepost-hq/guidepost/internal/companies"
	"github.com/guidepost-hq/guidepost/internal/observability"
	"github.com/guidepost-hq/guidepost/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CSRFManager      *shared.CSRFManager
	ActorResolver    auth.ActorResolver
	AuthHandler      *auth.Handler
	CompaniesHandler *companies.Handler
	AccountsHandler  *accounts.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Guidepost defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.ActorResolver.Resolve)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireActor)
		if params.CompaniesHandler != nil {
			r.Route("/companies", func(r chi.Router) {
				params.CompaniesHandler.MountRoutes(r)
				if params.AccountsHandler != nil {
					params.AccountsHandler.MountRoutes(r)
				}
			})
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
