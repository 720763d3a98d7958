package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/user"
)

const principalContextKey contextKey = "principal"

// Principal is the authenticated identity attached to the request
// context by the Auth stage.
type Principal struct {
	Identity string
	Role     user.Role
	Token    string
}

// Auth validates the Bearer token against the session store and, when
// roles are given, gates on the session's role. On success the
// principal is attached to the request context for inner stages.
//
// An unknown and an expired token are indistinguishable to the client:
// both are 401. A valid session with the wrong role is 403.
func Auth(roles ...user.Role) pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
			token, ok := BearerToken(c.Request)
			if !ok {
				return pipeline.Fail[pipeline.Response](
					apierror.Unauthorized("Missing or malformed Authorization header. Expected: Bearer <token>"))
			}

			sess, err := c.Env.Sessions.Validate(token)
			if err != nil {
				return pipeline.Fail[pipeline.Response](
					apierror.Unauthorized("Invalid or expired session token."))
			}

			if len(roles) > 0 && !slices.Contains(roles, sess.Role) {
				return pipeline.Fail[pipeline.Response](
					apierror.Forbidden("Insufficient role for this route."))
			}

			c.WithContext(context.WithValue(c.Context(), principalContextKey, Principal{
				Identity: sess.Identity,
				Role:     sess.Role,
				Token:    sess.Token,
			}))
			return next(c)
		}
	}
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// BearerToken parses the Authorization header for a Bearer token.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}

	token := strings.TrimSpace(h[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}
