package middleware

import (
	"slices"
	"strings"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/pipeline"
)

// AllowMethods short-circuits with a 405 failure when the incoming
// method is absent from the allow-list, and passes through unchanged
// otherwise.
func AllowMethods(methods ...string) pipeline.Middleware {
	allowed := make([]string, len(methods))
	for i, m := range methods {
		allowed[i] = strings.ToUpper(m)
	}

	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
			if !slices.Contains(allowed, c.Request.Method) {
				return pipeline.Fail[pipeline.Response](
					apierror.MethodNotAllowed("Method " + c.Request.Method + " not allowed.").
						WithDetails("allowed: " + strings.Join(allowed, ", ")))
			}
			return next(c)
		}
	}
}
