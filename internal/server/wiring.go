package server

import (
	"log/slog"

	"github.com/mjenner/gatehouse/internal/actor"
	"github.com/mjenner/gatehouse/internal/cache"
	"github.com/mjenner/gatehouse/internal/config"
	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/registry"
	"github.com/mjenner/gatehouse/internal/session"
	"github.com/mjenner/gatehouse/internal/user"
)

// Tokens for the process-wide services. All are singletons: the stores
// and actors own shared state, so every scope must resolve to the same
// instance.
var (
	TokenUsers    = registry.For[*user.Store]("users")
	TokenSessions = registry.For[*session.Store]("sessions")
	TokenCache    = registry.For[*cache.Store]("cache")
	TokenRequests = registry.For[*actor.Counter]("requests")
	TokenAudit    = registry.For[*actor.AuditLog]("audit")
)

// BuildRegistry registers factories for every core service.
func BuildRegistry(cfg config.Config, logger *slog.Logger) *registry.Registry {
	reg := registry.New()
	registry.Provide(reg, TokenUsers, registry.Singleton, func(*registry.Scope) *user.Store {
		return user.NewStore()
	})
	registry.Provide(reg, TokenSessions, registry.Singleton, func(*registry.Scope) *session.Store {
		return session.NewStore(cfg.Auth.SessionTTL)
	})
	registry.Provide(reg, TokenCache, registry.Singleton, func(*registry.Scope) *cache.Store {
		return cache.NewStore(cfg.Cache.TTL)
	})
	registry.Provide(reg, TokenRequests, registry.Singleton, func(*registry.Scope) *actor.Counter {
		return actor.NewCounter()
	})
	registry.Provide(reg, TokenAudit, registry.Singleton, func(*registry.Scope) *actor.AuditLog {
		return actor.NewAuditLog(logger)
	})
	return reg
}

// BuildEnv resolves the singletons into the environment handed to every
// request.
func BuildEnv(reg *registry.Registry, logger *slog.Logger) *pipeline.Env {
	scope := reg.NewScope()
	return &pipeline.Env{
		Users:    registry.Resolve(scope, TokenUsers),
		Sessions: registry.Resolve(scope, TokenSessions),
		Cache:    registry.Resolve(scope, TokenCache),
		Requests: registry.Resolve(scope, TokenRequests),
		Audit:    registry.Resolve(scope, TokenAudit),
		Logger:   logger,
	}
}
