package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/novatech-ai/deskrouter/schema"
)

// MemoryStore keeps entries in process memory and scores by cosine
// similarity. A snapshot path, when set, lets Save/Load persist the index
// between runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	path    string
}

// NewMemoryStore creates an empty in-memory store. path may be empty.
func NewMemoryStore(path string) *MemoryStore {
	return &MemoryStore{path: path}
}

// Upsert appends entries, replacing any existing document with the same ID.
func (s *MemoryStore) Upsert(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.Document.ID == "" {
			return fmt.Errorf("vectordb: entry without document ID")
		}
		replaced := false
		for i := range s.entries {
			if s.entries[i].Document.ID == e.Document.ID {
				e.Document.Seq = s.entries[i].Document.Seq
				s.entries[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			e.Document.Seq = len(s.entries)
			s.entries = append(s.entries, e)
		}
	}
	return nil
}

// Search returns the TopK entries matching the department filter by
// descending cosine similarity. Equal scores keep ingestion order.
func (s *MemoryStore) Search(_ context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	if opts == nil || opts.TopK <= 0 {
		return []schema.SearchResult{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]schema.SearchResult, 0, opts.TopK)
	for _, e := range s.entries {
		if opts.Department != "" && !strings.EqualFold(e.Document.Department, opts.Department) {
			continue
		}
		score := cosine(vector, e.Vector)
		if opts.Threshold > 0 && score < opts.Threshold {
			continue
		}
		matched = append(matched, schema.SearchResult{Document: e.Document, Score: score})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return matched[i].Document.Seq < matched[j].Document.Seq
	})
	if len(matched) > opts.TopK {
		matched = matched[:opts.TopK]
	}
	return matched, nil
}

// Count returns the number of stored entries.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Save writes the index snapshot to the configured path.
func (s *MemoryStore) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	data, err := json.Marshal(s.entries)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("vectordb: encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("vectordb: write snapshot: %w", err)
	}
	return nil
}

// Load replaces the index with the snapshot at the configured path. A
// missing file leaves the store empty.
func (s *MemoryStore) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("vectordb: read snapshot: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("vectordb: decode snapshot: %w", err)
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
