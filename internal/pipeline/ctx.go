package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mjenner/gatehouse/internal/actor"
	"github.com/mjenner/gatehouse/internal/cache"
	"github.com/mjenner/gatehouse/internal/registry"
	"github.com/mjenner/gatehouse/internal/session"
	"github.com/mjenner/gatehouse/internal/user"
)

// Env holds the process-wide service handles every stage reaches
// through the context. It is assembled once at startup and never
// replaced mid-chain; the services behind the handles carry their own
// concurrency discipline.
type Env struct {
	Users    *user.Store
	Sessions *session.Store
	Cache    *cache.Store
	Requests *actor.Counter
	Audit    *actor.AuditLog
	Logger   *slog.Logger
}

// Ctx is the environment threaded through one in-flight request. It is
// exclusively owned by that request and never shared across requests.
type Ctx struct {
	Request *http.Request
	Env     *Env
	Scope   *registry.Scope
}

// Context returns the request's context, which carries cancellation and
// any values middleware attached.
func (c *Ctx) Context() context.Context {
	return c.Request.Context()
}

// WithContext replaces the request's context, for middleware that
// attaches values for inner stages.
func (c *Ctx) WithContext(ctx context.Context) {
	c.Request = c.Request.WithContext(ctx)
}
