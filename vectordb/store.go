package vectordb

import (
	"context"
	"fmt"

	"github.com/novatech-ai/deskrouter/config"
	"github.com/novatech-ai/deskrouter/schema"
)

// Entry is one stored fragment with its embedding.
type Entry struct {
	Document schema.Document `json:"document"`
	Vector   []float32       `json:"vector"`
}

// Store is the similarity search backend. Search filters exactly on the
// department key and returns results by descending score, ties broken by
// ingestion order.
type Store interface {
	Upsert(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error)
	Count(ctx context.Context) (int, error)
}

// New creates a store from configuration.
func New(cfg *config.VectorDBConfig, httpCfg *config.HTTPClientConfig) (Store, error) {
	if cfg == nil {
		return NewMemoryStore(""), nil
	}
	switch cfg.Provider {
	case "", "memory":
		return NewMemoryStore(cfg.Path), nil
	case "qdrant":
		return NewQdrantStore(cfg, httpCfg), nil
	default:
		return nil, fmt.Errorf("vectordb: unknown provider %q", cfg.Provider)
	}
}
