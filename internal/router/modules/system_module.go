package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/oksasatya/go-social-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-api/internal/infrastructure/telemetry"
	"github.com/oksasatya/go-social-api/pkg/response"
)

// SystemModule serves operational endpoints outside /api:
// GET /healthz, GET /metrics (when Metrics is set) and the local upload
// directory under /uploads (when UploadDir is set).
type SystemModule struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Metrics   *telemetry.Metrics
	UploadDir string
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.health)
	if m.Metrics != nil {
		rg.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
	}
	if m.UploadDir != "" {
		rg.Static(storage.PublicPrefix, m.UploadDir)
	}
}

func (m *SystemModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true
	if err := m.pingDB(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if m.Redis != nil {
		checks["redis"] = "ok"
		// rate limiting fails open, so redis being down is reported but not fatal
		if err := m.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
		}
	}
	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.Success[any](c, http.StatusOK, checks, "ok", nil)
}

func (m *SystemModule) pingDB(ctx context.Context) error {
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
