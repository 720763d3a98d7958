package middleware

import (
	"time"

	"github.com/mjenner/gatehouse/internal/cache"
	"github.com/mjenner/gatehouse/internal/pipeline"
)

// Cache serves repeated requests for the same method and URL from the
// given store, holding each entry for ttl rather than the store's
// default. On a hit the cached response is returned immediately and
// no inner stage runs. On a miss the inner result is stored only when it
// is a success and the request is still alive; failures are never
// cached, and a partial result for an aborted request is never
// committed.
func Cache(store *cache.Store, ttl time.Duration) pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
			key := c.Request.Method + " " + c.Request.URL.RequestURI()

			if v, hit := store.Get(key); hit {
				cacheHits.Inc()
				return pipeline.Ok(v.(pipeline.Response).Clone())
			}
			cacheMisses.Inc()

			res := next(c)
			if res.IsOk() && c.Context().Err() == nil {
				store.SetTTL(key, res.Value().Clone(), ttl)
			}
			return res
		}
	}
}
