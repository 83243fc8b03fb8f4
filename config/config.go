package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinSecretLength is the smallest accepted JWT signing secret (HS256 key size).
const MinSecretLength = 32

var (
	ErrMissingSecret = errors.New("JWT_SECRET is required")
	ErrWeakSecret    = fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
)

// Config holds application configuration loaded from environment variables.
// Secrets have no defaults; see Validate.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Database
	DBDriver      string // postgres, sqlite
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration
	SQLitePath    string

	// Migrations
	MigrationsDir string

	// Auth
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Media storage
	StorageDriver  string // local, gcs, s3
	UploadDir      string
	MaxUploadBytes int64

	// Google Cloud Storage
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used

	// S3 (or compatible)
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string
	AWSProfile      string

	// Redis (rate limiting only)
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RateLimitLogin    int
	RateLimitRegister int

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// Telemetry
	MetricsEnabled  bool
	OTLPEndpoint    string
	OTELServiceName string
	HTTPLogEnabled  bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getint64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "go-social-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8000"),
		GinMode: getenv("GIN_MODE", "release"),

		DBDriver:      strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "social"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		SQLitePath:    getenv("SQLITE_PATH", "data/social.db"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		// no fallback: an absent secret must stop the process
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: getdur("ACCESS_TOKEN_TTL", 30*time.Minute),
		BcryptCost:     getint("BCRYPT_COST", 10),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		StorageDriver:  strings.ToLower(getenv("STORAGE_DRIVER", "local")),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getint64("MAX_UPLOAD_BYTES", 5<<20),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		S3Bucket:        getenv("S3_BUCKET", ""),
		S3Region:        getenv("S3_REGION", "us-east-1"),
		S3Endpoint:      getenv("S3_ENDPOINT", ""),
		S3PublicBaseURL: getenv("S3_PUBLIC_BASE_URL", ""),
		AWSProfile:      getenv("AWS_PROFILE", ""),

		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getint("REDIS_DB", 0),
		RateLimitLogin:    getint("RATE_LIMIT_LOGIN", 10),
		RateLimitRegister: getint("RATE_LIMIT_REGISTER", 5),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		MetricsEnabled:  getbool("METRICS_ENABLED", true),
		OTLPEndpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELServiceName: getenv("OTEL_SERVICE_NAME", "go-social-api"),
		HTTPLogEnabled:  getbool("HTTP_LOG_ENABLED", false),
	}
}

// Validate reports configuration that must stop startup.
func (c *Config) Validate() error {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return ErrMissingSecret
	}
	if len(secret) < MinSecretLength {
		return ErrWeakSecret
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageDriver {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return errors.New("GCS_BUCKET is required for the gcs storage driver")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

// PostgresDSN returns a DSN compatible with pgx. DATABASE_URL wins over the
// individual DB_* parts; the postgresql:// and postgres:// schemes are both accepted.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		if strings.HasPrefix(c.DatabaseURL, "postgresql://") {
			return "postgres://" + strings.TrimPrefix(c.DatabaseURL, "postgresql://")
		}
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitCSV(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitCSV(c.ElasticsearchAddrs)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
