package retriever

import (
	"context"
	"fmt"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/embedding"
	"github.com/novatech-ai/deskrouter/schema"
	"github.com/novatech-ai/deskrouter/vectordb"
)

// Retriever returns department-scoped context fragments for a query.
// An empty result is a legitimate terminal state, never an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, dept schema.DepartmentInfo, k int) ([]schema.SearchResult, error)
}

// Scoped retrieves via embedding plus vector store with an exact-match
// department filter.
type Scoped struct {
	Embed     embedding.Provider
	Store     vectordb.Store
	TopK      int // default when callers pass k <= 0
	Threshold float64
}

// Retrieve implements Retriever. Results arrive ordered by descending
// score with ingestion-order tie-breaks from the store.
func (r *Scoped) Retrieve(ctx context.Context, query string, dept schema.DepartmentInfo, k int) ([]schema.SearchResult, error) {
	if k <= 0 {
		k = r.TopK
	}
	if k <= 0 {
		k = 4
	}
	vec, err := r.Embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retriever: embed query: %w", err)
	}
	results, err := r.Store.Search(ctx, vec, &schema.SearchOptions{
		TopK:       k,
		Department: dept.Key(),
		Threshold:  r.Threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("retriever: search %s: %w", dept.Name, err)
	}
	logger.Debugf("retriever: department=%s k=%d hits=%d", dept.Name, k, len(results))
	return results, nil
}

// Fragments extracts the fragment texts from search results in order.
func Fragments(results []schema.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.Document.Content != "" {
			out = append(out, r.Document.Content)
		}
	}
	return out
}
