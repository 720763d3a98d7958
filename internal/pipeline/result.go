// Package pipeline provides the request-processing core: a
// short-circuiting result type, the per-request context threaded through
// every stage, and middleware composition over result-returning handlers.
package pipeline

import (
	"github.com/mjenner/gatehouse/internal/apierror"
)

// Result is the outcome of one pipeline stage: either a value or a
// typed failure. It propagates by value; no stage signals failure any
// other way.
type Result[T any] struct {
	value   T
	failure *apierror.Error
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a typed failure.
func Fail[T any](e *apierror.Error) Result[T] {
	return Result[T]{failure: e}
}

// IsOk reports whether the result is a success.
func (r Result[T]) IsOk() bool {
	return r.failure == nil
}

// Value returns the success value; the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure, or nil on success.
func (r Result[T]) Failure() *apierror.Error {
	return r.failure
}

// Bind runs f on a success value. A failure propagates unchanged and f
// is never invoked; this is the short-circuit contract every
// composition in the pipeline relies on.
func Bind[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	if r.failure != nil {
		return Fail[B](r.failure)
	}
	return f(r.value)
}

// Map runs a pure transformation on a success value. It cannot itself
// fail; a failure propagates unchanged.
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	if r.failure != nil {
		return Fail[B](r.failure)
	}
	return Ok(f(r.value))
}
