package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
)

// AuthModule exposes the public credential endpoints, each with its own
// per-IP budget:
// POST /api/register, POST /api/login
type AuthModule struct {
	Handler       *handlers.AuthHandler
	Redis         *redis.Client
	LoginLimit    int
	RegisterLimit int
	Window        time.Duration
	Bypass        middleware.AllowFunc
	Logger        logrus.FieldLogger
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, m.RegisterLimit, m.Window, middleware.KeyByIPAndPath(), m.Bypass, m.Logger)
	loginLimiter := middleware.RateLimit(m.Redis, m.LoginLimit, m.Window, middleware.KeyByIPAndPath(), m.Bypass, m.Logger)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
}
