package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
	"github.com/oksasatya/go-social-api/pkg/response"
	"github.com/oksasatya/go-social-api/pkg/validation"
)

const msgInternal = "internal server error"

// writeError maps service errors onto the response envelope. Unknown errors
// are logged and reported as 500 without their cause.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusBadRequest, "Username already registered", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusBadRequest, "Email already registered", nil)
	case errors.Is(err, application.ErrEmptyPost):
		response.Error[any](c, http.StatusBadRequest, "Post must have content or an image", nil)
	case errors.Is(err, application.ErrEmptyComment):
		response.Error[any](c, http.StatusBadRequest, "Comment content is required", nil)
	case errors.Is(err, application.ErrUnsupportedMedia):
		response.Error[any](c, http.StatusBadRequest, "Unsupported media", err.Error())

	case errors.Is(err, application.ErrPostNotFound):
		response.Error[any](c, http.StatusNotFound, "Post not found", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)

	case errors.Is(err, application.ErrInvalidCredentials):
		middleware.Unauthorized(c, "Incorrect username or password")
	case errors.Is(err, application.ErrUnauthenticated):
		middleware.Unauthorized(c, middleware.MsgBadCredentials)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "Not allowed", nil)

	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"route":      c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, msgInternal, nil)
	}
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pathID parses a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// principal returns the authenticated user; routes without the Bearer
// middleware in front of them get a 401.
func principal(c *gin.Context) (*entity.User, bool) {
	u, ok := middleware.Principal(c)
	if !ok {
		middleware.Unauthorized(c, middleware.MsgBadCredentials)
		return nil, false
	}
	return u, true
}
