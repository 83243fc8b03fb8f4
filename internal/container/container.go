package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/oksasatya/go-social-api/config"
	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/infrastructure/persistence"
	"github.com/oksasatya/go-social-api/internal/infrastructure/search"
	"github.com/oksasatya/go-social-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-api/internal/infrastructure/telemetry"
	"github.com/oksasatya/go-social-api/pkg/helpers"
)

// Infra is what main opens before anything can be wired.
type Infra struct {
	DB      *gorm.DB
	Redis   *redis.Client // nil disables rate limiting
	Storage storage.Storage
	Index   search.UserIndex // nil means search.Noop
	Metrics *telemetry.Metrics
}

// Container holds the application's shared components. It is built once
// in main and handed to the router; nothing here is package-global.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Infra

	Tokens *helpers.TokenManager
	Auth   *application.AuthService
	Users  *application.UserService
	Posts  *application.PostService
}

func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	if infra.Index == nil {
		infra.Index = search.Noop{}
	}
	users := persistence.NewUserRepository(infra.DB)
	posts := persistence.NewPostRepository(infra.DB)
	comments := persistence.NewCommentRepository(infra.DB)
	likes := persistence.NewLikeRepository(infra.DB)

	tokens := helpers.NewTokenManager(cfg.JWTSecret)
	auth := application.NewAuthService(users, tokens, cfg.AccessTokenTTL, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		Infra:  infra,
		Tokens: tokens,
		Auth:   auth,
		Users:  application.NewUserService(users, posts, auth, infra.Storage, infra.Index, infra.Metrics, logger, cfg.MaxUploadBytes),
		Posts:  application.NewPostService(posts, comments, likes, infra.Storage, infra.Metrics, logger, cfg.MaxUploadBytes),
	}
}
