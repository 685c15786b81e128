package embedding

import (
	"context"
	"time"

	"github.com/novatech-ai/deskrouter/cache"
)

// Provider produces a dense vector for a piece of text.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Cached wraps a Provider with an LRU so repeated queries skip the
// embeddings API. The cache belongs to the retrieval backend side: pipeline
// results themselves are never cached.
type Cached struct {
	inner Provider
	lru   *cache.LRU[[]float32]
	ttl   time.Duration
}

// NewCached wraps p with a query-embedding cache.
func NewCached(p Provider, size int, ttl time.Duration) *Cached {
	return &Cached{inner: p, lru: cache.NewLRU[[]float32](size, ttl), ttl: ttl}
}

func (c *Cached) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.lru.Get(text); ok {
		return v, nil
	}
	v, err := c.inner.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	c.lru.Set(text, v, c.ttl)
	return v, nil
}
