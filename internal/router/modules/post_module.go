package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
)

// PostModule wires posts, comments and likes.
type PostModule struct {
	Handler *handlers.PostHandler
	Bearer  gin.HandlerFunc
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.GET("", m.Handler.Feed)
	posts.GET("/:id", m.Handler.Get)

	auth := posts.Group("", m.Bearer)
	{
		auth.POST("", m.Handler.Create)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/comments", m.Handler.AddComment)
		auth.POST("/:id/like", m.Handler.ToggleLike)
	}
}
