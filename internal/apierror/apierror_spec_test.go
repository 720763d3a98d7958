package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error", func() {
	It("implements error interface with message", func() {
		e := BadRequest("bad input")
		Expect(e.Error()).To(Equal("bad input"))
	})

	It("WithPath returns a decorated copy without mutating the original", func() {
		e := NotFound("404 Not Found")
		withPath := e.WithPath("/missing")
		Expect(withPath.Path).To(Equal("/missing"))
		Expect(e.Path).To(BeEmpty())
	})

	It("WithDetails returns a decorated copy without mutating the original", func() {
		e := BadRequest("invalid body")
		withDetails := e.WithDetails("email must not be empty")
		Expect(withDetails.Details).To(Equal("email must not be empty"))
		Expect(e.Details).To(BeEmpty())
	})
})

var _ = Describe("Write", func() {
	It("writes JSON with message, statusCode, and path", func() {
		e := NotFound("404 Not Found").WithPath("/nope")
		rec := httptest.NewRecorder()
		Write(rec, e)

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		var body struct {
			Message    string `json:"message"`
			StatusCode int    `json:"statusCode"`
			Path       string `json:"path"`
		}
		Expect(json.NewDecoder(rec.Body).Decode(&body)).NotTo(HaveOccurred())
		Expect(body.Message).To(Equal("404 Not Found"))
		Expect(body.StatusCode).To(Equal(http.StatusNotFound))
		Expect(body.Path).To(Equal("/nope"))
	})

	It("omits empty details and path", func() {
		rec := httptest.NewRecorder()
		Write(rec, Unauthorized("Invalid or expired session token."))

		var body map[string]any
		Expect(json.NewDecoder(rec.Body).Decode(&body)).NotTo(HaveOccurred())
		Expect(body).NotTo(HaveKey("details"))
		Expect(body).NotTo(HaveKey("path"))
	})
})

var _ = Describe("Constructors", func() {
	It("map each kind to its status code", func() {
		Expect(BadRequest("x").StatusCode).To(Equal(http.StatusBadRequest))
		Expect(Unauthorized("x").StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(Forbidden("x").StatusCode).To(Equal(http.StatusForbidden))
		Expect(NotFound("x").StatusCode).To(Equal(http.StatusNotFound))
		Expect(MethodNotAllowed("x").StatusCode).To(Equal(http.StatusMethodNotAllowed))
		Expect(UnsupportedMediaType("x").StatusCode).To(Equal(http.StatusUnsupportedMediaType))
		Expect(Internal("x").StatusCode).To(Equal(http.StatusInternalServerError))
	})

	It("tag each kind", func() {
		Expect(BadRequest("x").Kind).To(Equal(KindBadRequest))
		Expect(MethodNotAllowed("x").Kind).To(Equal(KindMethodNotAllowed))
		Expect(UnsupportedMediaType("x").Kind).To(Equal(KindUnsupportedMediaType))
	})
})

var _ = Describe("Internal", func() {
	It("keeps the cause in details and the client message generic", func() {
		e := Internal("nil pointer in cache stage")
		Expect(e.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(e.Message).To(Equal("Internal server error."))
		Expect(e.Details).To(Equal("nil pointer in cache stage"))
	})
})
