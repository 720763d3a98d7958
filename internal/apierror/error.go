// Package apierror provides the typed failure values and HTTP error
// responses used by every pipeline stage.
//
// Every failure a stage can produce maps to exactly one Kind and one
// HTTP status code; the JSON body shape is stable across all of them.
package apierror

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Kind identifies the failure taxonomy entry an Error belongs to.
type Kind string

const (
	KindBadRequest           Kind = "bad_request"
	KindUnauthorized         Kind = "unauthorized"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindMethodNotAllowed     Kind = "method_not_allowed"
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindInternal             Kind = "internal_error"
)

// Error is a typed request-processing failure. It is returned by value
// through the pipeline and serialized once at the response boundary.
type Error struct {
	Kind       Kind   `json:"-"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Details    string `json:"details,omitempty"`
	Path       string `json:"path,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// WithPath returns a copy of e with the request path attached.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
}

// WithDetails returns a copy of e with details attached.
func (e *Error) WithDetails(details string) *Error {
	c := *e
	c.Details = details
	return &c
}

// Write sends an Error as a JSON HTTP response.
func Write(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)

	if encErr := json.NewEncoder(w).Encode(err); encErr != nil {
		slog.Error("failed to encode error response", "err", encErr)
	}
}

// BadRequest returns a 400 error for malformed bodies or headers.
func BadRequest(msg string) *Error {
	return &Error{
		Kind:       KindBadRequest,
		Message:    msg,
		StatusCode: http.StatusBadRequest,
	}
}

// Unauthorized returns a 401 error for missing, invalid, or expired credentials.
func Unauthorized(msg string) *Error {
	return &Error{
		Kind:       KindUnauthorized,
		Message:    msg,
		StatusCode: http.StatusUnauthorized,
	}
}

// Forbidden returns a 403 error for a valid session with an insufficient role.
func Forbidden(msg string) *Error {
	return &Error{
		Kind:       KindForbidden,
		Message:    msg,
		StatusCode: http.StatusForbidden,
	}
}

// NotFound returns a 404 error for an unmatched route or missing entity.
func NotFound(msg string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Message:    msg,
		StatusCode: http.StatusNotFound,
	}
}

// MethodNotAllowed returns a 405 error for a matched path with a method
// outside the route's allow-list.
func MethodNotAllowed(msg string) *Error {
	return &Error{
		Kind:       KindMethodNotAllowed,
		Message:    msg,
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// UnsupportedMediaType returns a 415 error for a request body in a
// content type the handler does not accept.
func UnsupportedMediaType(msg string) *Error {
	return &Error{
		Kind:       KindUnsupportedMediaType,
		Message:    msg,
		StatusCode: http.StatusUnsupportedMediaType,
	}
}

// Internal returns a 500 error for an unexpected failure in any stage.
// The original cause goes to Details so it reaches the logs; the client
// message stays generic and stack traces are never sent.
func Internal(msg string) *Error {
	return &Error{
		Kind:       KindInternal,
		Message:    "Internal server error.",
		StatusCode: http.StatusInternalServerError,
		Details:    msg,
	}
}
