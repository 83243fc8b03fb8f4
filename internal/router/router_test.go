package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-social-api/config"
	"github.com/oksasatya/go-social-api/internal/container"
	"github.com/oksasatya/go-social-api/internal/infrastructure/persistence"
	"github.com/oksasatya/go-social-api/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-social-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-api/internal/infrastructure/telemetry"
	"github.com/oksasatya/go-social-api/pkg/helpers"
	"github.com/oksasatya/go-social-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	helpers.SetBcryptCost(bcrypt.MinCost)
	validation.Init()
	os.Exit(m.Run())
}

func newEngine(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath, nil)
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	dir := t.TempDir()
	media, err := storage.NewLocal(dir)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:               "test",
		JWTSecret:         strings.Repeat("x", config.MinSecretLength),
		AccessTokenTTL:    time.Minute,
		StorageDriver:     "local",
		UploadDir:         dir,
		MaxUploadBytes:    1 << 20,
		MetricsEnabled:    true,
		RateLimitLogin:    10,
		RateLimitRegister: 5,
	}
	logger, _ := logtest.NewNullLogger()
	c := container.New(cfg, logger, container.Infra{
		DB:      db,
		Storage: media,
		Metrics: telemetry.NewMetrics("router"),
	})

	e := gin.New()
	reg := NewRegistry(e)
	InitModules(reg, c)
	reg.RegisterAll()
	return e, dir
}

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutesAreRegistered(t *testing.T) {
	e, _ := newEngine(t)
	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/register",
		"POST /api/login",
		"GET /api/users/me",
		"DELETE /api/users/me",
		"GET /api/users/search",
		"GET /api/users/:username",
		"GET /api/posts",
		"POST /api/posts",
		"GET /api/posts/:id",
		"DELETE /api/posts/:id",
		"POST /api/posts/:id/comments",
		"POST /api/posts/:id/like",
		"GET /healthz",
		"GET /metrics",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestHealthz(t *testing.T) {
	e, _ := newEngine(t)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
}

func TestRegisterLoginMeAndServeUpload(t *testing.T) {
	e, _ := newEngine(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("username", "alice"))
	require.NoError(t, w.WriteField("email", "alice@example.com"))
	require.NoError(t, w.WriteField("password", "secret"))
	fw, err := w.CreateFormFile("profile_picture", "a.gif")
	require.NoError(t, err)
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	_, err = fw.Write(gif)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/register", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := serve(e, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg struct {
		Data struct {
			ProfilePicture string `json:"profile_picture"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	require.True(t, strings.HasPrefix(reg.Data.ProfilePicture, storage.PublicPrefix+"/avatars/"))

	rec = serve(e, httptest.NewRequest(http.MethodGet, reg.Data.ProfilePicture, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gif, rec.Body.Bytes())

	req = httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	rec = serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "router_registrations_total 1")
}

func TestLocalUploadsAreServed(t *testing.T) {
	e, dir := newEngine(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.txt"), []byte("hi"), 0o644))
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/uploads/x.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
