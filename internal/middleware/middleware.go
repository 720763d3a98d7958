// Package middleware provides the standard pipeline stages: request ID,
// panic recovery, metrics, gzip, logging, method allow-list,
// authentication/authorization, and response caching.
//
// All of them compose over pipeline.Handler; the declared order for a
// protected route is
//
//	RequestID → Recover → Metrics → Gzip → Logging → AllowMethods → Auth → Cache → handler
package middleware

// contextKey is an unexported type for context keys in this package.
type contextKey string
