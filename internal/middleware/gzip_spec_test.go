package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/pipeline"
)

var _ = Describe("Gzip", func() {
	var (
		env  *pipeline.Env
		stop func()
	)

	BeforeEach(func() {
		env, stop = newTestEnv()
	})

	AfterEach(func() {
		stop()
	})

	It("compresses the body when the client accepts gzip", func() {
		body := strings.Repeat("compressible ", 50)
		c := newTestCtx(env, http.MethodGet, "/users")
		c.Request.Header.Set("Accept-Encoding", "gzip")

		res := Gzip()(okHandler(body))(c)
		Expect(res.IsOk()).To(BeTrue())
		resp := res.Value()
		Expect(resp.Header.Get("Content-Encoding")).To(Equal("gzip"))
		Expect(len(resp.Body)).To(BeNumerically("<", len(body)))

		zr, err := gzip.NewReader(bytes.NewReader(resp.Body))
		Expect(err).NotTo(HaveOccurred())
		plain, err := io.ReadAll(zr)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(plain)).To(Equal(body))
	})

	It("leaves the body alone when the client does not accept gzip", func() {
		res := Gzip()(okHandler("plain"))(newTestCtx(env, http.MethodGet, "/users"))
		Expect(res.Value().Header.Get("Content-Encoding")).To(BeEmpty())
		Expect(string(res.Value().Body)).To(Equal("plain"))
	})

	It("passes failures through untouched", func() {
		boom := apierror.NotFound("missing")
		c := newTestCtx(env, http.MethodGet, "/users")
		c.Request.Header.Set("Accept-Encoding", "gzip")

		res := Gzip()(func(*pipeline.Ctx) pipeline.Result[pipeline.Response] {
			return pipeline.Fail[pipeline.Response](boom)
		})(c)
		Expect(res.Failure()).To(BeIdenticalTo(boom))
	})

	It("skips empty bodies", func() {
		c := newTestCtx(env, http.MethodGet, "/users")
		c.Request.Header.Set("Accept-Encoding", "gzip")

		res := Gzip()(okHandler(""))(c)
		Expect(res.Value().Header.Get("Content-Encoding")).To(BeEmpty())
	})
})
