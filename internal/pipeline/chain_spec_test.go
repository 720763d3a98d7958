package pipeline

import (
	"context"
	"net/http"
	"strings"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mjenner/gatehouse/internal/apierror"
)

var _ = ginkgo.Describe("Chain", func() {
	ginkgo.It("applies middleware in order: first is outermost", func() {
		var order []string
		inner := func(*Ctx) Result[Response] {
			order = append(order, "handler")
			return Text(http.StatusOK, "ok")
		}
		mwA := func(next Handler) Handler {
			return func(c *Ctx) Result[Response] {
				order = append(order, "A-in")
				res := next(c)
				order = append(order, "A-out")
				return res
			}
		}
		mwB := func(next Handler) Handler {
			return func(c *Ctx) Result[Response] {
				order = append(order, "B-in")
				res := next(c)
				order = append(order, "B-out")
				return res
			}
		}

		res := Chain(inner, mwA, mwB)(newTestCtx(http.MethodGet, "/"))

		Expect(res.IsOk()).To(BeTrue())
		Expect(strings.Join(order, " ")).To(Equal("A-in B-in handler B-out A-out"))
	})

	ginkgo.It("short-circuits: once a middleware fails, inner stages never run", func() {
		handlerRan := false
		inner := func(*Ctx) Result[Response] {
			handlerRan = true
			return Text(http.StatusOK, "ok")
		}
		deny := func(Handler) Handler {
			return func(*Ctx) Result[Response] {
				return Fail[Response](apierror.Forbidden("denied"))
			}
		}
		observed := []int{}
		outer := func(next Handler) Handler {
			return func(c *Ctx) Result[Response] {
				res := next(c)
				observed = append(observed, res.Failure().StatusCode)
				return res
			}
		}

		res := Chain(inner, outer, deny)(newTestCtx(http.MethodGet, "/"))

		Expect(handlerRan).To(BeFalse())
		Expect(res.Failure().StatusCode).To(Equal(http.StatusForbidden))
		Expect(observed).To(Equal([]int{http.StatusForbidden}))
	})

	ginkgo.It("works with no middleware", func() {
		res := Chain(func(*Ctx) Result[Response] {
			return Text(http.StatusNoContent, "")
		})(newTestCtx(http.MethodGet, "/"))
		Expect(res.Value().Status).To(Equal(http.StatusNoContent))
	})

	ginkgo.It("abandons remaining stages once the request context is done", func() {
		handlerRan := false
		inner := func(*Ctx) Result[Response] {
			handlerRan = true
			return Text(http.StatusOK, "ok")
		}
		cancelMW := func(next Handler) Handler {
			return func(c *Ctx) Result[Response] {
				ctx, cancel := context.WithCancel(c.Context())
				cancel()
				c.WithContext(ctx)
				return next(c)
			}
		}

		res := Chain(inner, cancelMW)(newTestCtx(http.MethodGet, "/"))

		Expect(handlerRan).To(BeFalse())
		Expect(res.IsOk()).To(BeFalse())
	})
})

var _ = ginkgo.Describe("Run", func() {
	ginkgo.It("returns the handler's result untouched", func() {
		c := newTestCtx(http.MethodGet, "/")
		res := Run(c, func(*Ctx) Result[Response] {
			return Text(http.StatusOK, "fine")
		})
		Expect(res.IsOk()).To(BeTrue())
		Expect(string(res.Value().Body)).To(Equal("fine"))
	})

	ginkgo.It("converts an escaping panic into an internal failure with the cause in details", func() {
		c := newTestCtx(http.MethodGet, "/")
		res := Run(c, func(*Ctx) Result[Response] {
			panic("stage exploded")
		})

		Expect(res.IsOk()).To(BeFalse())
		Expect(res.Failure().StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(res.Failure().Message).NotTo(ContainSubstring("stage exploded"))
		Expect(res.Failure().Details).To(ContainSubstring("stage exploded"))
	})
})
