package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/pipeline"
)

// Recover catches panics from inner stages, logs the stack trace, and
// converts them into internal failures so the chain still produces
// exactly one result. pipeline.Run remains the backstop for panics in
// stages outside this wrapper.
func Recover() pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) (res pipeline.Result[pipeline.Response]) {
			defer func() {
				if r := recover(); r != nil {
					c.Env.Logger.Error("panic recovered",
						"err", r,
						"stack", string(debug.Stack()),
						"method", c.Request.Method,
						"path", c.Request.URL.Path,
					)
					res = pipeline.Fail[pipeline.Response](apierror.Internal(fmt.Sprint(r)))
				}
			}()
			return next(c)
		}
	}
}
