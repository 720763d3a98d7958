package handler

import (
	"net/http"

	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/version"
)

// Users lists every registered account. The route sits behind an
// administrator Auth stage and the response cache.
//
//	GET /users
func Users() pipeline.Handler {
	return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
		return pipeline.JSON(http.StatusOK, c.Env.Users.All())
	}
}

// Stats reports the request counter and audit-line totals from the
// actor services, plus the generic cache population. The actor reads
// are round trips, so they observe every message enqueued before them.
//
//	GET /stats
func Stats() pipeline.Handler {
	return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
		return pipeline.JSON(http.StatusOK, map[string]int64{
			"requests":     c.Env.Requests.Count(),
			"auditLines":   c.Env.Audit.Lines(),
			"cacheEntries": int64(c.Env.Cache.Len()),
		})
	}
}

// Health handles liveness checks. It always returns 200 if the server
// is running, with the build version so you can see what is deployed.
//
//	GET /health
func Health() pipeline.Handler {
	return func(*pipeline.Ctx) pipeline.Result[pipeline.Response] {
		return pipeline.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	}
}
