package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mjenner/gatehouse/internal/config"
	"github.com/mjenner/gatehouse/internal/observability"
	"github.com/mjenner/gatehouse/internal/server"
	"github.com/mjenner/gatehouse/internal/user"
	"github.com/mjenner/gatehouse/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional, env vars work without it)")
	flag.Parse()

	// Load configuration: defaults -> YAML file -> env vars.
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	// Set up structured logger.
	logger := newLogger(cfg.Log)
	logger.Info("starting gatehouse", "version", version.Version)

	// Wire the core services and seed the administrator.
	reg := server.BuildRegistry(cfg, logger)
	env := server.BuildEnv(reg, logger)
	if err := env.Users.Add(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, user.RoleAdministrator); err != nil {
		logger.Error("failed to seed administrator", "err", err)
		os.Exit(1)
	}
	logger.Info("administrator seeded", "email", cfg.Auth.AdminEmail)

	// Background sweepers drop expired sessions and stale cache entries.
	sweepCtx, stopSweepers := context.WithCancel(context.Background())
	go env.Sessions.RunSweeper(sweepCtx, cfg.Auth.SweepInterval, logger)
	go env.Cache.RunSweeper(sweepCtx, cfg.Auth.SweepInterval, logger)

	srv := server.New(cfg, env, reg, logger)

	// Optional OpenTelemetry tracing: wrap handler so all requests are traced.
	var tp *observability.TracerProvider
	if cfg.Observability.OTelEnabled {
		var errOTel error
		tp, errOTel = observability.NewTracerProvider(context.Background(), cfg.Observability.OTelEndpoint, cfg.Observability.OTelServiceName)
		if errOTel != nil {
			logger.Error("otel tracer provider failed", "err", errOTel)
			os.Exit(1)
		}
		srv.Handler = observability.HTTPHandler(srv.Handler, cfg.Observability.OTelServiceName)
		logger.Info("opentelemetry tracing enabled", "endpoint", cfg.Observability.OTelEndpoint)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if tp != nil {
		_ = tp.Shutdown(ctx)
	}
	server.Shutdown(ctx, srv, logger)

	stopSweepers()
	env.Requests.Stop()
	env.Audit.Stop()
	logger.Info("server stopped")
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
