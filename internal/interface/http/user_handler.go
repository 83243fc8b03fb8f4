package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/pkg/response"
)

type UserHandler struct {
	Users  *application.UserService
	Logger logrus.FieldLogger
}

func NewUserHandler(users *application.UserService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

type searchQuery struct {
	Q    string `form:"q"`
	Size int    `form:"size" binding:"omitempty,gte=1,lte=50"`
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	u, err := h.Users.Me(c.Request.Context(), p)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAccount(u), "profile", nil)
}

// DeleteMe DELETE /api/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Users.DeleteAccount(c.Request.Context(), p); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	docs, err := h.Users.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	hits := toSearchHits(docs)
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// Profile GET /api/users/:username
func (h *UserHandler) Profile(c *gin.Context) {
	prof, err := h.Users.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, profileResponse{
		User:  toUser(prof.User),
		Posts: toPosts(prof.Posts),
	}, "profile", nil)
}
