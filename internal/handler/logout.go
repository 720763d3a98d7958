package handler

import (
	"errors"
	"net/http"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/middleware"
	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/session"
)

// Logout revokes the presented session token. It does its own token
// extraction instead of sitting behind the Auth stage: its contract
// answers 400 for a missing or malformed header and 404 for a token
// with no live session, where Auth would flatten both to 401.
//
//	POST /logout
func Logout() pipeline.Handler {
	return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
		token, ok := middleware.BearerToken(c.Request)
		if !ok {
			return pipeline.Fail[pipeline.Response](
				apierror.BadRequest("Missing or malformed Authorization header. Expected: Bearer <token>"))
		}

		if err := c.Env.Sessions.Revoke(token); err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return pipeline.Fail[pipeline.Response](apierror.NotFound("Session not found."))
			}
			return pipeline.Fail[pipeline.Response](apierror.Internal("revoke session: " + err.Error()))
		}

		return pipeline.Text(http.StatusOK, "Logged out successfully")
	}
}
