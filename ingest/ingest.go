package ingest

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/embedding"
	"github.com/novatech-ai/deskrouter/schema"
	"github.com/novatech-ai/deskrouter/vectordb"
)

// Ingestor splits a policy document into numbered sections, tags each with
// a department, embeds it and writes it into the vector store.
type Ingestor struct {
	Embed         embedding.Provider
	Store         vectordb.Store
	Registry      *schema.Registry
	MinSectionLen int
}

var sectionRe = regexp.MustCompile(`\n\d+\.\s`)

// departmentCues maps lowercase keywords to the stock department tags.
// Sections matching no cue fall back to Engineering when registered,
// otherwise to the first configured department.
var departmentCues = []struct {
	department string
	keywords   []string
}{
	{"HR", []string{"leave", "recruit", "payroll", "benefit"}},
	{"Sales", []string{"pricing", "plan", "package", "proposal"}},
	{"Finance", []string{"invoice", "payment", "refund", "billing"}},
	{"Support", []string{"login", "ticket", "complaint", "account recovery"}},
}

// IngestFile reads the document at path and indexes its sections. It
// returns the number of fragments written.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	return in.IngestText(ctx, string(data))
}

// IngestText indexes raw document text.
func (in *Ingestor) IngestText(ctx context.Context, text string) (int, error) {
	minLen := in.MinSectionLen
	if minLen <= 0 {
		minLen = 50
	}
	entries := make([]vectordb.Entry, 0, 16)
	for _, section := range SplitSections(text) {
		if len(section) < minLen {
			continue
		}
		dept := in.tagDepartment(section)
		vec, err := in.Embed.GetEmbedding(ctx, section)
		if err != nil {
			return 0, fmt.Errorf("ingest: embed section: %w", err)
		}
		entries = append(entries, vectordb.Entry{
			Document: schema.Document{
				ID:         uuid.New().String(),
				Content:    section,
				Department: dept,
			},
			Vector: vec,
		})
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := in.Store.Upsert(ctx, entries); err != nil {
		return 0, fmt.Errorf("ingest: upsert: %w", err)
	}
	logger.Infof("ingest: indexed %d fragments", len(entries))
	return len(entries), nil
}

// SplitSections splits document text on numbered section headings
// ("\n1. ", "\n2. ", ...) and trims each section.
func SplitSections(text string) []string {
	parts := sectionRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (in *Ingestor) tagDepartment(section string) string {
	lower := strings.ToLower(section)
	for _, cue := range departmentCues {
		if _, ok := in.Registry.Normalize(cue.department); !ok {
			continue
		}
		for _, kw := range cue.keywords {
			if strings.Contains(lower, kw) {
				if info, ok := in.Registry.Info(schema.Department(cue.department)); ok {
					return info.Key()
				}
			}
		}
	}
	if info, ok := in.Registry.Info("Engineering"); ok {
		return info.Key()
	}
	all := in.Registry.All()
	if len(all) > 0 {
		if info, ok := in.Registry.Info(all[0]); ok {
			return info.Key()
		}
	}
	return ""
}
