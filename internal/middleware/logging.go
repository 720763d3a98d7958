package middleware

import (
	"net/http"
	"time"

	"github.com/mjenner/gatehouse/internal/actor"
	"github.com/mjenner/gatehouse/internal/pipeline"
)

// Logging records a start event before calling inward and exactly one
// completion event on every exit path, both through the serialized
// audit-log actor. It never alters the result it observes.
func Logging() pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) (res pipeline.Result[pipeline.Response]) {
			start := time.Now()
			id := RequestIDFromContext(c.Context())
			method, path := c.Request.Method, c.Request.URL.Path

			c.Env.Audit.Record(actor.Event{
				Phase:     "start",
				RequestID: id,
				Method:    method,
				Path:      path,
			})

			// Deferred so the completion event is recorded even when an
			// inner stage panics past this frame.
			defer func() {
				ev := actor.Event{
					Phase:      "done",
					RequestID:  id,
					Method:     method,
					Path:       path,
					DurationMS: time.Since(start).Milliseconds(),
				}
				switch {
				case res.Failure() != nil:
					ev.Status = res.Failure().StatusCode
					ev.Error = res.Failure().Message
					if res.Failure().Details != "" {
						ev.Error = res.Failure().Details
					}
				case res.Value().Status != 0:
					ev.Status = res.Value().Status
				default:
					// Unwinding from a panic; an outer stage converts it.
					ev.Status = http.StatusInternalServerError
					ev.Error = "panic"
				}
				c.Env.Audit.Record(ev)
			}()

			return next(c)
		}
	}
}
