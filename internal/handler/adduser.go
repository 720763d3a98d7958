package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/pipeline"
	"github.com/mjenner/gatehouse/internal/user"
)

type addUserRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
	Role     string `json:"Role"`
}

// AddUser registers a new account. The route's Auth stage has already
// required an administrator session; this handler only parses and
// validates the body, which may be JSON or form-encoded.
//
//	POST /adduser
func AddUser() pipeline.Handler {
	return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
		req, fail := parseAddUser(c.Request)
		if fail != nil {
			return pipeline.Fail[pipeline.Response](fail)
		}

		if req.Email == "" || req.Password == "" {
			return pipeline.Fail[pipeline.Response](
				apierror.BadRequest("Email and Password are required."))
		}

		role, err := user.ParseRole(req.Role)
		if err != nil {
			return pipeline.Fail[pipeline.Response](
				apierror.BadRequest("Invalid role.").WithDetails(err.Error()))
		}

		if err := c.Env.Users.Add(req.Email, req.Password, role); err != nil {
			if errors.Is(err, user.ErrDuplicateUser) {
				return pipeline.Fail[pipeline.Response](
					apierror.BadRequest("User " + req.Email + " already exists."))
			}
			return pipeline.Fail[pipeline.Response](apierror.Internal("add user: " + err.Error()))
		}

		return pipeline.Text(http.StatusOK, "User "+req.Email+" added.")
	}
}

// parseAddUser decodes the request body by content type. Anything other
// than JSON or a URL-encoded form is 415.
func parseAddUser(r *http.Request) (addUserRequest, *apierror.Error) {
	ct := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return addUserRequest{}, apierror.UnsupportedMediaType("Unparseable Content-Type header.")
	}

	switch mediaType {
	case "application/json":
		var req addUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return addUserRequest{}, apierror.BadRequest("Invalid JSON in request body.").WithDetails(err.Error())
		}
		return req, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return addUserRequest{}, apierror.BadRequest("Invalid form body.").WithDetails(err.Error())
		}
		return addUserRequest{
			Email:    r.PostFormValue("Email"),
			Password: r.PostFormValue("Password"),
			Role:     r.PostFormValue("Role"),
		}, nil

	default:
		return addUserRequest{}, apierror.UnsupportedMediaType(
			"Content-Type must be application/json or application/x-www-form-urlencoded.")
	}
}
