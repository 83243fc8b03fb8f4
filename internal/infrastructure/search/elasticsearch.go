package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-social-api/internal/domain/entity"
)

const (
	DefaultSearchSize = 10
	MaxSearchSize     = 50
	requestTimeout    = 3 * time.Second
)

// NewESClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// Open returns an Elasticsearch-backed index, or Noop when addrs is empty.
func Open(addrs []string, username, password, index string) (UserIndex, error) {
	if len(addrs) == 0 {
		return Noop{}, nil
	}
	es, err := NewESClient(addrs, username, password)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return NewElasticsearch(es, index), nil
}

type Elasticsearch struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticsearch(es *elasticsearch.Client, index string) *Elasticsearch {
	return &Elasticsearch{es: es, index: index}
}

var _ UserIndex = (*Elasticsearch)(nil)

func (s *Elasticsearch) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(NewUserDocument(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: strconv.FormatUint(uint64(u.ID), 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, s.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (s *Elasticsearch) Delete(ctx context.Context, id uint) error {
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: strconv.FormatUint(uint64(id), 10),
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, s.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search performs a prefix-aware multi_match on username (boosted) and email.
func (s *Elasticsearch) Search(ctx context.Context, q string, size int) ([]UserDocument, error) {
	size = ClampSize(size)
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "email"},
				"type":   "bool_prefix",
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := s.es.Search(
		s.es.Search.WithContext(c),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source UserDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]UserDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// ClampSize applies the default and upper bound to a requested result size.
func ClampSize(size int) int {
	if size <= 0 {
		return DefaultSearchSize
	}
	if size > MaxSearchSize {
		return MaxSearchSize
	}
	return size
}
