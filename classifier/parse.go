package classifier

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/novatech-ai/deskrouter/schema"
)

// Parse coerces near-JSON model output into a department set. It tries, in
// order: the trimmed output itself, the widest {...} span, then the widest
// [...] span. The first well-formed candidate wins; unknown department
// names inside it are dropped silently. Output without any well-formed
// payload is tagged Malformed and maps to the empty set.
func Parse(raw string, registry *schema.Registry) Result {
	for _, candidate := range candidates(raw) {
		if labels, ok := extractLabels(candidate); ok {
			return Result{Departments: normalize(labels, registry)}
		}
	}
	return Result{Malformed: true}
}

func candidates(raw string) []string {
	trimmed := strings.TrimSpace(stripFences(raw))
	out := []string{trimmed}
	if i, j := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); i >= 0 && j > i {
		out = append(out, trimmed[i:j+1])
	}
	if i, j := strings.Index(trimmed, "["), strings.LastIndex(trimmed, "]"); i >= 0 && j > i {
		out = append(out, trimmed[i:j+1])
	}
	return out
}

// stripFences removes a markdown code fence wrapper if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return s
}

func extractLabels(candidate string) ([]string, bool) {
	if !gjson.Valid(candidate) {
		return nil, false
	}
	parsed := gjson.Parse(candidate)
	var arr gjson.Result
	switch {
	case parsed.IsObject():
		arr = parsed.Get("departments")
		if !arr.IsArray() {
			return nil, false
		}
	case parsed.IsArray():
		arr = parsed
	default:
		return nil, false
	}
	labels := make([]string, 0, 4)
	for _, v := range arr.Array() {
		if v.Type == gjson.String {
			labels = append(labels, v.String())
		}
	}
	return labels, true
}

func normalize(labels []string, registry *schema.Registry) []schema.Department {
	out := make([]schema.Department, 0, len(labels))
	seen := make(map[schema.Department]struct{}, len(labels))
	for _, l := range labels {
		name, ok := registry.Normalize(l)
		if !ok {
			continue // unknown label, not routed
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
