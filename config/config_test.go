package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DBDriver:       "sqlite",
		JWTSecret:      strings.Repeat("s", MinSecretLength),
		AccessTokenTTL: 30 * time.Minute,
		StorageDriver:  "local",
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "   "
	require.ErrorIs(t, cfg.Validate(), ErrMissingSecret)
}

func TestValidateRejectsShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "short"
	require.ErrorIs(t, cfg.Validate(), ErrWeakSecret)
}

func TestValidateStorageDriver(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cfg.StorageDriver = "gcs"
	assert.Error(t, cfg.Validate())
	cfg.GCSBucket = "media"
	assert.NoError(t, cfg.Validate())

	cfg.StorageDriver = "ftp"
	assert.Error(t, cfg.Validate())
}

func TestLoadHasNoSecretFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg := Load()
	assert.Empty(t, cfg.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgresql://u:p@db:5432/app"}
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.PostgresDSN())

	cfg = &Config{DBUser: "u", DBPassword: "p@ss", DBHost: "db", DBPort: "5432", DBName: "app", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/app?sslmode=disable", cfg.PostgresDSN())
}
