package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/oksasatya/go-social-api/config"
	"github.com/oksasatya/go-social-api/internal/infrastructure/persistence"
	"github.com/oksasatya/go-social-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-social-api/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-social-api/pkg/helpers"
)

// CloseFunc releases everything Open acquired.
type CloseFunc func()

// Open connects to the configured driver and brings the schema up to date.
// Postgres runs the SQL migrations in cfg.MigrationsDir; sqlite is
// auto-migrated from the entity definitions.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*gorm.DB, CloseFunc, error) {
	gormLog := helpers.NewGormLogger(logger, cfg.Env)

	switch cfg.DBDriver {
	case "postgres":
		dsn := cfg.PostgresDSN()
		pool, err := postgres.NewPool(ctx, dsn, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := postgres.RunMigrations(dsn, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := postgres.OpenGorm(pool, gormLog)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return db, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			pool.Close()
		}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath, gormLog)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if err := persistence.AutoMigrate(db); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("sqlite database ready")
		return db, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
