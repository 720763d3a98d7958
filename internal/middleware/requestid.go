package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/mjenner/gatehouse/internal/pipeline"
)

const requestIDContextKey contextKey = "request_id"

// RequestID assigns a unique ID to every request. If the client sends an
// X-Request-ID header it is reused; otherwise a 16-byte hex ID is
// generated. The ID goes into the request context for the logging stage
// and is echoed on successful responses.
func RequestID() pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
			id := c.Request.Header.Get("X-Request-ID")
			if id == "" {
				id = generateID()
			}
			c.WithContext(context.WithValue(c.Context(), requestIDContextKey, id))

			res := next(c)
			if res.IsOk() {
				res.Value().Header.Set("X-Request-ID", id)
			}
			return res
		}
	}
}

// RequestIDFromContext retrieves the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
