package pipeline

import (
	"fmt"
	"runtime/debug"

	"github.com/mjenner/gatehouse/internal/apierror"
)

// Handler is a terminal pipeline stage: it reads the threaded context
// and produces exactly one result.
type Handler func(*Ctx) Result[Response]

// Middleware wraps a Handler with additional behavior.
type Middleware func(Handler) Handler

// Chain composes middleware in the order given. The first middleware in
// the list is the outermost (runs first on the way in, last on the way
// out).
//
//	Chain(handler, logging, methods, auth)
//	// Inward order:  logging → methods → auth → handler
//
// Every stage boundary checks request liveness: once the request's
// context is done, remaining stages are abandoned and a failure
// propagates outward instead.
func Chain(h Handler, mw ...Middleware) Handler {
	h = guard(h)
	for i := len(mw) - 1; i >= 0; i-- {
		h = guard(mw[i](h))
	}
	return h
}

// guard abandons the next stage when the request is already dead.
func guard(next Handler) Handler {
	return func(c *Ctx) Result[Response] {
		if err := c.Context().Err(); err != nil {
			return Fail[Response](apierror.Internal("request abandoned: " + err.Error()))
		}
		return next(c)
	}
}

// Run executes a composed handler. It is the outermost boundary: any
// panic that escapes a stage is caught here, logged with its stack, and
// converted into an internal failure, so one result is always produced.
func Run(c *Ctx, h Handler) (res Result[Response]) {
	defer func() {
		if r := recover(); r != nil {
			c.Env.Logger.Error("panic in pipeline",
				"err", r,
				"stack", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			res = Fail[Response](apierror.Internal(fmt.Sprint(r)))
		}
	}()
	return h(c)
}
