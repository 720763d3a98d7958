// Package server wires the route table, middleware chains, and service
// environment into a runnable HTTP server.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mjenner/gatehouse/internal/config"
	"github.com/mjenner/gatehouse/internal/handler"
	"github.com/mjenner/gatehouse/internal/middleware"
	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/registry"
	"github.com/mjenner/gatehouse/internal/router"
	"github.com/mjenner/gatehouse/internal/user"
)

// New creates a configured *http.Server with all routes and middleware
// wired.
func New(cfg config.Config, env *pipeline.Env, reg *registry.Registry, logger *slog.Logger) *http.Server {
	rt := NewRouter(cfg, env, reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", rt)

	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// NewRouter builds the route table with the declared middleware order.
// Inward order for a protected route:
// RequestID → Recover → Metrics → Gzip → Logging → AllowMethods → Auth → Cache → handler.
// Gzip sits outside the cache stage so cached bodies stay uncompressed.
// Cached routes share the generic cache service, with the shorter route
// TTL per entry.
func NewRouter(cfg config.Config, env *pipeline.Env, reg *registry.Registry) *router.Router {
	rt := router.New(env, reg)

	std := func(extra ...pipeline.Middleware) []pipeline.Middleware {
		return append([]pipeline.Middleware{
			middleware.RequestID(),
			middleware.Recover(),
			middleware.Metrics(),
			middleware.Gzip(),
			middleware.Logging(),
		}, extra...)
	}

	rt.Handle(http.MethodPost, "/login", handler.Login(),
		std(middleware.AllowMethods(http.MethodPost))...)

	// Logout handles its own token so it can answer 400/404 instead of 401.
	rt.Handle(http.MethodPost, "/logout", handler.Logout(),
		std(middleware.AllowMethods(http.MethodPost))...)

	rt.Handle(http.MethodPost, "/adduser", handler.AddUser(),
		std(
			middleware.AllowMethods(http.MethodPost),
			middleware.Auth(user.RoleAdministrator),
		)...)

	rt.Handle(http.MethodGet, "/users", handler.Users(),
		std(
			middleware.AllowMethods(http.MethodGet),
			middleware.Auth(user.RoleAdministrator),
			middleware.Cache(env.Cache, cfg.Cache.RouteTTL),
		)...)

	rt.Handle(http.MethodGet, "/stats", handler.Stats(),
		std(
			middleware.AllowMethods(http.MethodGet),
			middleware.Auth(),
		)...)

	rt.Handle(http.MethodGet, "/health", handler.Health(),
		std(middleware.AllowMethods(http.MethodGet))...)

	return rt
}

// Shutdown gracefully shuts down the server with the given context.
func Shutdown(ctx context.Context, srv *http.Server, logger *slog.Logger) {
	logger.Info("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}
