package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mjenner/gatehouse/internal/pipeline"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gatehouse",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gatehouse",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Name:      "cache_hits_total",
		Help:      "Responses served from the route cache.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Name:      "cache_misses_total",
		Help:      "Route-cache lookups that fell through to the handler.",
	})

	// SessionsIssued is incremented by the login flow.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gatehouse",
		Name:      "sessions_issued_total",
		Help:      "Sessions issued by successful logins.",
	})
)

// normalizePath maps request paths to metric-safe labels to avoid
// cardinality explosion.
func normalizePath(path string) string {
	switch path {
	case "/login", "/logout", "/adduser", "/users", "/stats", "/health", "/metrics":
		return path
	default:
		return "/other"
	}
}

// Metrics records request count, latency, and in-flight gauge for every
// request that reaches the pipeline.
func Metrics() pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
			start := time.Now()
			path := normalizePath(c.Request.URL.Path)

			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			res := next(c)

			status := http.StatusInternalServerError
			if res.IsOk() {
				status = res.Value().Status
			} else {
				status = res.Failure().StatusCode
			}
			httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
			return res
		}
	}
}
