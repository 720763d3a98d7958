package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/user"
)

var _ = Describe("AddUser", func() {
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

	It("adds a user from a JSON body", func() {
		res := AddUser()(newJSONCtx(env, http.MethodPost, "/adduser",
			`{"Email":"a@b.com","Password":"x"}`))

		Expect(res.IsOk()).To(BeTrue())
		Expect(string(res.Value().Body)).To(Equal("User a@b.com added."))

		u, ok := env.Users.Get("a@b.com")
		Expect(ok).To(BeTrue())
		Expect(u.Role).To(Equal(user.RoleUser))
	})

	It("honors an explicit role", func() {
		res := AddUser()(newJSONCtx(env, http.MethodPost, "/adduser",
			`{"Email":"a@b.com","Password":"x","Role":"Administrator"}`))
		Expect(res.IsOk()).To(BeTrue())

		u, _ := env.Users.Get("a@b.com")
		Expect(u.Role).To(Equal(user.RoleAdministrator))
	})

	It("accepts a form-encoded body", func() {
		form := url.Values{"Email": {"f@b.com"}, "Password": {"x"}, "Role": {"user"}}
		req := httptest.NewRequest(http.MethodPost, "/adduser", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		res := AddUser()(&pipeline.Ctx{Request: req, Env: env})
		Expect(res.IsOk()).To(BeTrue())
		Expect(string(res.Value().Body)).To(ContainSubstring("f@b.com"))
	})

	It("answers 415 for an unsupported content type", func() {
		req := httptest.NewRequest(http.MethodPost, "/adduser", strings.NewReader("<user/>"))
		req.Header.Set("Content-Type", "application/xml")

		res := AddUser()(&pipeline.Ctx{Request: req, Env: env})
		Expect(res.Failure().StatusCode).To(Equal(http.StatusUnsupportedMediaType))
	})

	It("answers 400 for a missing email or password", func() {
		res := AddUser()(newJSONCtx(env, http.MethodPost, "/adduser", `{"Email":"a@b.com"}`))
		Expect(res.Failure().StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("answers 400 for an unknown role", func() {
		res := AddUser()(newJSONCtx(env, http.MethodPost, "/adduser",
			`{"Email":"a@b.com","Password":"x","Role":"owner"}`))
		Expect(res.Failure().StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("answers 400 for a duplicate identity", func() {
		Expect(env.Users.Add("a@b.com", "x", user.RoleUser)).To(Succeed())
		res := AddUser()(newJSONCtx(env, http.MethodPost, "/adduser",
			`{"Email":"a@b.com","Password":"x"}`))
		Expect(res.Failure().StatusCode).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("Users", func() {
	It("lists registered accounts without credential material", func() {
		env, stop := newTestEnv()
		defer stop()
		Expect(env.Users.Add("b@b.com", "x", user.RoleUser)).To(Succeed())
		Expect(env.Users.Add("a@b.com", "x", user.RoleAdministrator)).To(Succeed())

		res := Users()(&pipeline.Ctx{
			Request: httptest.NewRequest(http.MethodGet, "/users", nil),
			Env:     env,
		})
		Expect(res.IsOk()).To(BeTrue())
		body := string(res.Value().Body)
		Expect(body).To(MatchJSON(`[
			{"email":"a@b.com","role":"administrator"},
			{"email":"b@b.com","role":"user"}
		]`))
	})
})

var _ = Describe("Stats", func() {
	It("reports the actor-backed counters", func() {
		env, stop := newTestEnv()
		defer stop()
		env.Requests.Increment()
		env.Requests.Increment()

		res := Stats()(&pipeline.Ctx{
			Request: httptest.NewRequest(http.MethodGet, "/stats", nil),
			Env:     env,
		})
		Expect(res.IsOk()).To(BeTrue())
		Expect(string(res.Value().Body)).To(MatchJSON(`{"requests":2,"auditLines":0,"cacheEntries":0}`))
	})
})

var _ = Describe("Health", func() {
	It("always answers ok with the build version", func() {
		env, stop := newTestEnv()
		defer stop()

		res := Health()(&pipeline.Ctx{
			Request: httptest.NewRequest(http.MethodGet, "/health", nil),
			Env:     env,
		})
		Expect(res.IsOk()).To(BeTrue())
		Expect(string(res.Value().Body)).To(ContainSubstring(`"status":"ok"`))
	})
})
