package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/pratik-mahalle/horizon/internal/api/handlers"
	"github.com/pratik-mahalle/horizon/internal/api/middleware"
	"github.com/pratik-mahalle/horizon/internal/config"
	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/metrics"
	"github.com/pratik-mahalle/horizon/internal/pkg/utils"
	"github.com/pratik-mahalle/horizon/internal/web"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	AuthAPI *handlers.AuthAPIHandler
	Home    *handlers.HomeHandler
}

// Deps are the shared pieces the middleware stack needs
type Deps struct {
	Limiter *middleware.RateLimiter
	// Cache backs the submit throttle; nil disables it
	Cache *redis.Client
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(deps.Limiter))

	submitLimit := middleware.SubmitLimit(deps.Cache, cfg.RateLimit.SubmitsPerMinute, log)
	session := middleware.OptionalSession(cfg.Session.Secret, cfg.Session.CookieName)

	// Operational endpoints
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))))

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(session)

		r.Get("/", h.Home.Home)

		r.Get("/sign-in", h.Auth.SignInPage)
		r.Get("/sign-up", h.Auth.SignUpPage)
		r.With(submitLimit).Post("/sign-in", h.Auth.SignIn)
		r.With(submitLimit).Post("/sign-up", h.Auth.SignUp)
		r.Post("/sign-out", h.Auth.SignOut)
	})

	// JSON auth endpoints (v1)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
		r.Use(middleware.NoStore)
		r.Use(submitLimit)

		r.Post("/sign-in", h.AuthAPI.SignIn)
		r.Post("/sign-up", h.AuthAPI.SignUp)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, errors.NotFound("Route"))
	})

	return r
}
