package router

import (
	"time"

	"github.com/oksasatya/go-social-api/internal/container"
	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
	"github.com/oksasatya/go-social-api/internal/router/modules"
)

// InitModules wires every feature module from c and adds it to r.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	bearer := middleware.Bearer(c.Auth, c.Logger)

	var bypass middleware.AllowFunc
	if cfg.Env == "development" {
		bypass = middleware.AllowPrivateIP()
	}

	r.Add(&modules.AuthModule{
		Handler:       handlers.NewAuthHandler(c.Users, c.Logger),
		Redis:         c.Redis,
		LoginLimit:    cfg.RateLimitLogin,
		RegisterLimit: cfg.RateLimitRegister,
		Window:        time.Minute,
		Bypass:        bypass,
		Logger:        c.Logger,
	})
	r.Add(&modules.UserModule{Handler: handlers.NewUserHandler(c.Users, c.Logger), Bearer: bearer})
	r.Add(&modules.PostModule{Handler: handlers.NewPostHandler(c.Posts, c.Logger), Bearer: bearer})

	system := &modules.SystemModule{DB: c.DB, Redis: c.Redis}
	if cfg.MetricsEnabled {
		system.Metrics = c.Metrics
	}
	if cfg.StorageDriver == "local" {
		system.UploadDir = cfg.UploadDir
	}
	r.AddRoot(system)
}
