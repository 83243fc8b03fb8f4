package database

import (
	"context"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-api/config"
	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := &config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "nested", "social.db"),
	}
	db, closeFn, err := Open(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer closeFn()

	for _, model := range []any{&entity.User{}, &entity.Post{}, &entity.Comment{}, &entity.Like{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.FileExists(t, cfg.SQLitePath)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, _, err := Open(context.Background(), &config.Config{DBDriver: "mysql"}, logger)
	assert.Error(t, err)
}
