// Package router dispatches requests to pipeline handlers by exact
// (method, path) match and writes exactly one response per request.
package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/registry"
)

// Router holds the declared route table. Register every route before
// serving; the table is not safe for concurrent mutation.
type Router struct {
	env    *pipeline.Env
	reg    *registry.Registry
	routes map[string]map[string]pipeline.Handler // path → method → handler
}

// New creates an empty Router over the given environment. reg may be
// nil when no per-request scope resolution is needed.
func New(env *pipeline.Env, reg *registry.Registry) *Router {
	return &Router{
		env:    env,
		reg:    reg,
		routes: make(map[string]map[string]pipeline.Handler),
	}
}

// Handle registers a handler for an exact method and path, wrapped in
// the given middleware (first listed is outermost).
func (rt *Router) Handle(method, path string, h pipeline.Handler, mw ...pipeline.Middleware) {
	byMethod, ok := rt.routes[path]
	if !ok {
		byMethod = make(map[string]pipeline.Handler)
		rt.routes[path] = byMethod
	}
	byMethod[strings.ToUpper(method)] = pipeline.Chain(h, mw...)
}

// ServeHTTP resolves the route, runs the composed pipeline, and
// serializes one of the two outcomes. An unmatched path is 404; a
// matched path with an unregistered method is 405 with an Allow header.
// Nothing is written for a request whose client has gone away.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.env.Requests.Increment()

	byMethod, ok := rt.routes[r.URL.Path]
	if !ok {
		apierror.Write(w, apierror.NotFound("404 Not Found").WithPath(r.URL.Path))
		return
	}

	h, ok := byMethod[r.Method]
	if !ok {
		w.Header().Set("Allow", allowHeader(byMethod))
		apierror.Write(w, apierror.MethodNotAllowed("Method "+r.Method+" not allowed.").WithPath(r.URL.Path))
		return
	}

	c := &pipeline.Ctx{Request: r, Env: rt.env}
	if rt.reg != nil {
		c.Scope = rt.reg.NewScope()
	}

	res := pipeline.Run(c, h)

	// The request context outlives the pipeline only if the client is
	// still there; an aborted request gets no response at all.
	if r.Context().Err() != nil {
		return
	}

	if !res.IsOk() {
		apierror.Write(w, res.Failure().WithPath(r.URL.Path))
		return
	}

	resp := res.Value()
	for k, vv := range resp.Header {
		w.Header()[k] = vv
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func allowHeader(byMethod map[string]pipeline.Handler) string {
	methods := make([]string, 0, len(byMethod))
	for m := range byMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
