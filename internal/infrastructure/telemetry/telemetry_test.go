package telemetry

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics("social")
	m.ObserveHTTP("GET", "/api/posts", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)
	m.LikeToggled(true)
	m.LikeToggled(true)
	m.LikeToggled(false)
	m.UserRegistered()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/posts", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.likeToggles.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.likeToggles.WithLabelValues("removed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "social_like_toggles_total")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.LikeToggled(true)
		m.UserRegistered()
		m.PostCreated()
		m.CommentCreated()
	})
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "svc", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
