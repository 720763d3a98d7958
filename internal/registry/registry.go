// Package registry provides a typed service registry with three
// lifetimes: singleton, scoped, and transient.
//
// Services are keyed by typed tokens, so a resolution is checked at
// compile time rather than through runtime type assertions. Resolving a
// token nobody provided is a fatal configuration error and panics.
package registry

import (
	"fmt"
	"sync"
)

// Lifetime controls how often a factory runs.
type Lifetime int

const (
	// Singleton constructs once per process, on first resolution.
	Singleton Lifetime = iota
	// Scoped constructs once per Scope (one logical request).
	Scoped
	// Transient constructs on every resolution.
	Transient
)

// Token identifies a service of type T. Tokens with the same name and
// type refer to the same registration.
type Token[T any] struct {
	name string
}

// For creates a token for a service named name.
func For[T any](name string) Token[T] {
	return Token[T]{name: name}
}

type entry struct {
	lifetime Lifetime
	build    func(*Scope) any

	once     sync.Once // singleton construction, exactly once under concurrent first access
	instance any
}

// Registry holds service factories. Register everything at startup,
// then resolve through scopes.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Provide registers a factory for tok with the given lifetime.
// Re-registering a token replaces the previous factory.
func Provide[T any](r *Registry, tok Token[T], lifetime Lifetime, build func(*Scope) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[tok.name] = &entry{
		lifetime: lifetime,
		build:    func(s *Scope) any { return build(s) },
	}
}

// Scope is one logical request scope. Scoped services are cached per
// Scope; singletons are shared across all scopes of the same Registry.
type Scope struct {
	reg *Registry

	mu    sync.Mutex
	cache map[string]any
}

// NewScope creates a resolution scope.
func (r *Registry) NewScope() *Scope {
	return &Scope{reg: r, cache: make(map[string]any)}
}

// Resolve returns the service for tok, constructing it according to its
// registered lifetime. An unregistered token panics.
func Resolve[T any](s *Scope, tok Token[T]) T {
	s.reg.mu.RLock()
	e, ok := s.reg.entries[tok.name]
	s.reg.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("registry: no provider for %q", tok.name))
	}

	switch e.lifetime {
	case Singleton:
		e.once.Do(func() {
			e.instance = e.build(s)
		})
		return e.instance.(T)

	case Scoped:
		s.mu.Lock()
		if v, hit := s.cache[tok.name]; hit {
			s.mu.Unlock()
			return v.(T)
		}
		s.mu.Unlock()
		// Build outside the scope lock; factories may resolve other tokens.
		v := e.build(s)
		s.mu.Lock()
		if prior, hit := s.cache[tok.name]; hit {
			v = prior
		} else {
			s.cache[tok.name] = v
		}
		s.mu.Unlock()
		return v.(T)

	default:
		return e.build(s).(T)
	}
}
