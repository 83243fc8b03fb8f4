package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

type fakeCluster struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies[r.Method+" "+r.URL.Path] = body
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPut && r.URL.Path == "/users/_doc/7":
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete && r.URL.Path == "/users/_doc/8":
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	case r.URL.Path == "/users/_search":
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"7","_source":{"id":7,"username":"alice","email":"alice@example.com","created_at":"2025-01-01T00:00:00Z"}}]}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{}`)
	}
}

func newTestIndex(t *testing.T) (*Elasticsearch, *fakeCluster) {
	t.Helper()
	fake := &fakeCluster{bodies: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewElasticsearch(es, "users"), fake
}

func TestElasticsearchIndex(t *testing.T) {
	idx, fake := newTestIndex(t)
	u := &entity.User{ID: 7, Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash", CreatedAt: time.Now()}
	require.NoError(t, idx.Index(context.Background(), u))

	body := fake.bodies["PUT /users/_doc/7"]
	require.NotEmpty(t, body)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "alice", doc["username"])
	assert.NotContains(t, string(body), "secret-hash")
}

func TestElasticsearchSearch(t *testing.T) {
	idx, fake := newTestIndex(t)
	docs, err := idx.Search(context.Background(), "ali", 500)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, uint(7), docs[0].ID)
	assert.Equal(t, "alice", docs[0].Username)

	var q map[string]any
	for k, b := range fake.bodies {
		if k == "POST /users/_search" || k == "GET /users/_search" {
			require.NoError(t, json.Unmarshal(b, &q))
		}
	}
	assert.EqualValues(t, MaxSearchSize, q["size"])
}

func TestElasticsearchDeleteMissingIsFine(t *testing.T) {
	idx, _ := newTestIndex(t)
	assert.NoError(t, idx.Delete(context.Background(), 8))
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, DefaultSearchSize, ClampSize(0))
	assert.Equal(t, DefaultSearchSize, ClampSize(-3))
	assert.Equal(t, 5, ClampSize(5))
	assert.Equal(t, MaxSearchSize, ClampSize(MaxSearchSize+1))
}

func TestNoop(t *testing.T) {
	var idx UserIndex = Noop{}
	docs, err := idx.Search(context.Background(), "x", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, idx.Index(context.Background(), &entity.User{}))
	assert.NoError(t, idx.Delete(context.Background(), 1))
}

func TestOpen(t *testing.T) {
	idx, err := Open(nil, "", "", "users")
	require.NoError(t, err)
	assert.IsType(t, Noop{}, idx)

	idx, err = Open([]string{"http://127.0.0.1:9200"}, "", "", "users")
	require.NoError(t, err)
	assert.IsType(t, &Elasticsearch{}, idx)
}
