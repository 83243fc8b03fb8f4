package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/oksasatya/go-social-api/config"
	"github.com/oksasatya/go-social-api/internal/container"
	"github.com/oksasatya/go-social-api/internal/infrastructure/database"
	"github.com/oksasatya/go-social-api/internal/infrastructure/search"
	"github.com/oksasatya/go-social-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-api/internal/infrastructure/telemetry"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
	"github.com/oksasatya/go-social-api/internal/router"
	"github.com/oksasatya/go-social-api/pkg/helpers"
	"github.com/oksasatya/go-social-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	helpers.SetBcryptCost(cfg.BcryptCost)
	validation.Init()

	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.OTELServiceName, cfg.Env)
	if err != nil {
		logger.WithError(err).Fatal("failed to init tracing")
	}

	db, closeDB, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer closeDB()

	// Redis backs the rate limiter only
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, rate limiting disabled")
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	media, closeMedia, err := openStorage(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to init media storage")
	}
	defer closeMedia()

	index, err := search.Open(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass, cfg.ESUsersIndex)
	if err != nil {
		logger.WithError(err).Fatal("failed to init elasticsearch")
	}
	if _, ok := index.(search.Noop); ok {
		logger.Info("elasticsearch not configured, search disabled")
	}

	metrics := telemetry.NewMetrics("social")
	c := container.New(cfg, logger, container.Infra{
		DB:      db,
		Redis:   rdb,
		Storage: media,
		Index:   index,
		Metrics: metrics,
	})

	// Gin engine and global middleware
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.WithError(err).Fatal("failed to configure trusted proxies")
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(metrics))
	}
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.LoggerWithWriter(logger.WriterLevel(logrus.InfoLevel)))
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, cfg.OTELServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "db": cfg.DBDriver, "storage": cfg.StorageDriver}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	if err := shutdownTracing(ctxShutdown); err != nil {
		logger.WithError(err).Warn("tracer shutdown")
	}
	logger.Info("server exited properly")
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.StorageDriver {
	case "gcs":
		g, err := storage.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	case "s3":
		s, err := storage.NewS3(ctx, storage.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
			Profile:       cfg.AWSProfile,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		l, err := storage.NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	}
}
