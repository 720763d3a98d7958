package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/mjenner/gatehouse/internal/apierror"
)

// Response is the fully buffered outcome of a successful pipeline run.
// Bodies are buffered whole; the engine does not stream.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Text builds a plain-text success response.
func Text(status int, body string) Result[Response] {
	h := make(http.Header)
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return Ok(Response{Status: status, Header: h, Body: []byte(body)})
}

// JSON builds a JSON success response. An encoding failure is a
// programming error surfaced as an internal failure, never a panic.
func JSON(status int, v any) Result[Response] {
	body, err := json.Marshal(v)
	if err != nil {
		return Fail[Response](apierror.Internal("encode response: " + err.Error()))
	}
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return Ok(Response{Status: status, Header: h, Body: body})
}

// Clone returns a deep copy, so a cached response handed to one request
// can never be mutated by another.
func (r Response) Clone() Response {
	c := Response{Status: r.Status, Header: r.Header.Clone(), Body: make([]byte, len(r.Body))}
	copy(c.Body, r.Body)
	return c
}
