package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/novatech-ai/deskrouter/common/httpx"
	"github.com/novatech-ai/deskrouter/config"
	"github.com/novatech-ai/deskrouter/schema"
)

// QdrantStore talks to a Qdrant REST endpoint. Department scoping maps to
// a payload match filter on the "department" field.
type QdrantStore struct {
	Endpoint   string
	Collection string
	APIKey     string
	Client     *httpx.Client
}

// NewQdrantStore builds a store from config.
func NewQdrantStore(cfg *config.VectorDBConfig, httpCfg *config.HTTPClientConfig) *QdrantStore {
	return &QdrantStore{
		Endpoint:   cfg.Endpoint,
		Collection: cfg.Collection,
		APIKey:     cfg.APIKey,
		Client:     httpx.NewFromConfig(httpCfg),
	}
}

type qdrantPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type qdrantSearchRequest struct {
	Vector         []float32      `json:"vector"`
	Limit          int            `json:"limit"`
	Filter         map[string]any `json:"filter,omitempty"`
	ScoreThreshold float64        `json:"score_threshold,omitempty"`
	WithPayload    bool           `json:"with_payload"`
}

type qdrantSearchResponse struct {
	Result []struct {
		ID      string         `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
	Status string `json:"status"`
}

// Upsert writes points into the collection.
func (s *QdrantStore) Upsert(ctx context.Context, entries []Entry) error {
	points := make([]qdrantPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, qdrantPoint{
			ID:     e.Document.ID,
			Vector: e.Vector,
			Payload: map[string]any{
				"content":    e.Document.Content,
				"department": e.Document.Department,
				"seq":        e.Document.Seq,
			},
		})
	}
	body, _ := json.Marshal(map[string]any{"points": points})
	resp, err := s.do(ctx, http.MethodPut, path.Join("collections", s.Collection, "points"), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vectordb: qdrant upsert status %d", resp.StatusCode)
	}
	return nil
}

// Search queries the collection with an exact-match department filter.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	if opts == nil || opts.TopK <= 0 {
		return []schema.SearchResult{}, nil
	}
	q := qdrantSearchRequest{
		Vector:         vector,
		Limit:          opts.TopK,
		ScoreThreshold: opts.Threshold,
		WithPayload:    true,
	}
	if opts.Department != "" {
		q.Filter = map[string]any{
			"must": []map[string]any{
				{"key": "department", "match": map[string]any{"value": opts.Department}},
			},
		}
	}
	body, _ := json.Marshal(q)
	resp, err := s.do(ctx, http.MethodPost, path.Join("collections", s.Collection, "points", "search"), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vectordb: qdrant search status %d", resp.StatusCode)
	}
	var out qdrantSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("vectordb: decode qdrant response: %w", err)
	}
	results := make([]schema.SearchResult, 0, len(out.Result))
	for _, hit := range out.Result {
		doc := schema.Document{ID: hit.ID}
		if v, ok := hit.Payload["content"].(string); ok {
			doc.Content = v
		}
		if v, ok := hit.Payload["department"].(string); ok {
			doc.Department = v
		}
		if v, ok := hit.Payload["seq"].(float64); ok {
			doc.Seq = int(v)
		}
		results = append(results, schema.SearchResult{Document: doc, Score: hit.Score})
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	body := []byte(`{"exact": true}`)
	resp, err := s.do(ctx, http.MethodPost, path.Join("collections", s.Collection, "points", "count"), body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("vectordb: qdrant count status %d", resp.StatusCode)
	}
	var out struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("vectordb: decode qdrant count: %w", err)
	}
	return out.Result.Count, nil
}

func (s *QdrantStore) do(ctx context.Context, method, p string, body []byte) (*http.Response, error) {
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("vectordb: parse endpoint: %w", err)
	}
	u.Path = path.Join(u.Path, p)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("vectordb: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("api-key", s.APIKey)
	}
	return s.Client.Do(req)
}
