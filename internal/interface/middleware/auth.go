package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/pkg/response"
)

const (
	CtxPrincipalKey = "principal"
	CtxUserIDKey    = "userID"

	// MsgBadCredentials is the single message for every bearer failure.
	MsgBadCredentials = "Could not validate credentials"
)

// PrincipalResolver turns a bearer token into the user it names.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*entity.User, error)
}

// Bearer requires "Authorization: Bearer <token>" and stores the resolved
// user in the Gin context. Every token problem is answered with the same
// 401 and a WWW-Authenticate challenge.
func Bearer(resolver PrincipalResolver, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			Unauthorized(c, MsgBadCredentials)
			return
		}
		u, err := resolver.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrUnauthenticated) {
				Unauthorized(c, MsgBadCredentials)
				return
			}
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("resolve principal failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxPrincipalKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// Unauthorized aborts with 401 and the Bearer challenge header.
func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error[any](c, http.StatusUnauthorized, message, nil)
}

// Principal returns the user stored by Bearer.
func Principal(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
