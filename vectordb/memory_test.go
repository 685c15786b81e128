package vectordb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/novatech-ai/deskrouter/schema"
)

func entry(id, dept, content string, vec []float32) Entry {
	return Entry{
		Document: schema.Document{ID: id, Department: dept, Content: content},
		Vector:   vec,
	}
}

func TestMemoryStore_DepartmentFilter(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()
	if err := s.Upsert(ctx, []Entry{
		entry("a", "Sales", "pricing plans", []float32{1, 0}),
		entry("b", "Finance", "payment terms", []float32{1, 0}),
		entry("c", "Sales", "discount policy", []float32{0, 1}),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	res, err := s.Search(ctx, []float32{1, 0}, &schema.SearchOptions{TopK: 10, Department: "Sales"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range res {
		if r.Document.Department != "Sales" {
			t.Fatalf("leaked %s document into Sales scope", r.Document.Department)
		}
	}
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
	if res[0].Document.ID != "a" {
		t.Fatalf("best match = %s, want a", res[0].Document.ID)
	}
}

func TestMemoryStore_EmptyIndexReturnsEmpty(t *testing.T) {
	s := NewMemoryStore("")
	res, err := s.Search(context.Background(), []float32{1, 0}, &schema.SearchOptions{TopK: 5, Department: "HR"})
	if err != nil {
		t.Fatalf("search on empty index must not error: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("got %d results from empty index", len(res))
	}
}

func TestMemoryStore_OrderingAndTies(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()
	// b and c have identical vectors: the tie must resolve by ingestion order.
	if err := s.Upsert(ctx, []Entry{
		entry("far", "Sales", "x", []float32{0, 1}),
		entry("tie-first", "Sales", "y", []float32{1, 0.2}),
		entry("tie-second", "Sales", "z", []float32{1, 0.2}),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	res, err := s.Search(ctx, []float32{1, 0}, &schema.SearchOptions{TopK: 3, Department: "Sales"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	got := []string{res[0].Document.ID, res[1].Document.ID, res[2].Document.ID}
	want := []string{"tie-first", "tie-second", "far"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMemoryStore_TopKBound(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()
	entries := make([]Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, entry(string(rune('a'+i)), "HR", "doc", []float32{1, float32(i)}))
	}
	if err := s.Upsert(ctx, entries); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	res, err := s.Search(ctx, []float32{1, 0}, &schema.SearchOptions{TopK: 4, Department: "HR"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 4 {
		t.Fatalf("got %d results, want 4", len(res))
	}
}

func TestMemoryStore_UpsertReplacesByID(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()
	if err := s.Upsert(ctx, []Entry{entry("a", "HR", "old", []float32{1, 0})}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(ctx, []Entry{entry("a", "HR", "new", []float32{1, 0})}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	res, _ := s.Search(ctx, []float32{1, 0}, &schema.SearchOptions{TopK: 1, Department: "HR"})
	if res[0].Document.Content != "new" {
		t.Fatalf("content = %q, want replaced document", res[0].Document.Content)
	}
}

func TestMemoryStore_SnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	ctx := context.Background()

	s := NewMemoryStore(path)
	if err := s.Upsert(ctx, []Entry{
		entry("a", "Sales", "pricing", []float32{1, 0}),
		entry("b", "HR", "leave policy", []float32{0, 1}),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := NewMemoryStore(path)
	if err := restored.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	n, _ := restored.Count(ctx)
	if n != 2 {
		t.Fatalf("count after load = %d, want 2", n)
	}
	res, err := restored.Search(ctx, []float32{0, 1}, &schema.SearchOptions{TopK: 1, Department: "HR"})
	if err != nil || len(res) != 1 || res[0].Document.ID != "b" {
		t.Fatalf("unexpected restored search: %v %v", res, err)
	}
}
