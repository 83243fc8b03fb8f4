package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
)

// UserModule wires account and profile routes.
// Public: GET /api/users/search, GET /api/users/:username
// Protected: GET /api/users/me, DELETE /api/users/me
type UserModule struct {
	Handler *handlers.UserHandler
	Bearer  gin.HandlerFunc
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("/search", m.Handler.Search)
	users.GET("/:username", m.Handler.Profile)

	me := users.Group("/me", m.Bearer)
	{
		me.GET("", m.Handler.Me)
		me.DELETE("", m.Handler.DeleteMe)
	}
}
