package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/llm"
	"github.com/novatech-ai/deskrouter/schema"
)

// RefusalPhrase is the canonical out-of-scope reply the model is
// instructed to emit. Detection is structural: the reply is mapped into
// schema.AnswerRefusal and downstream code never matches on the string.
const RefusalPhrase = "This query does not fall under my department."

// NoRecordsText is the fixed reply when the department is in scope but the
// index held nothing for the query. It is a substantive answer, not a
// refusal.
const NoRecordsText = "The requested information is not available in company records."

// TokenCounter reports the token length of a prompt fragment.
type TokenCounter interface {
	Count(text string) int
}

// Responder produces one department's answer for a query, grounded on the
// retrieved fragments.
type Responder struct {
	Provider llm.Provider
	Registry *schema.Registry

	// Tokens and PromptBudget bound how many retrieved fragments are packed
	// into the instructions. A nil counter or zero budget disables clipping.
	Tokens       TokenCounter
	PromptBudget int
}

// Answer asks the department to answer query using only the supplied
// fragments. An empty context short-circuits to the NoRecords answer
// without a model call. Generation failures are reported as
// *schema.GenerationError.
func (r *Responder) Answer(ctx context.Context, query string, dept schema.Department, fragments []string) (schema.Answer, error) {
	info, ok := r.Registry.Info(dept)
	if !ok {
		return schema.Answer{}, fmt.Errorf("responder: unknown department %q", dept)
	}
	if len(fragments) == 0 {
		logger.Debugf("responder: %s has no records for query", dept)
		return schema.Answer{Department: info.Name, Kind: schema.AnswerNoRecords, Text: NoRecordsText}, nil
	}

	raw, err := r.Provider.Generate(ctx, buildInstructions(info, r.clip(fragments)), query)
	if err != nil {
		return schema.Answer{}, &schema.GenerationError{Stage: "responder/" + string(info.Name), Err: err}
	}
	return tag(info.Name, raw), nil
}

// clip drops trailing fragments once the token budget is exceeded. The
// first fragment is always kept so the answer stays grounded.
func (r *Responder) clip(fragments []string) []string {
	if r.Tokens == nil || r.PromptBudget <= 0 {
		return fragments
	}
	total := 0
	for i, f := range fragments {
		total += r.Tokens.Count(f)
		if total > r.PromptBudget && i > 0 {
			logger.Debugf("responder: clipped context to %d of %d fragments", i, len(fragments))
			return fragments[:i]
		}
	}
	return fragments
}

// tag classifies raw model output into the answer taxonomy.
func tag(dept schema.Department, raw string) schema.Answer {
	switch {
	case matchesSentinel(raw, RefusalPhrase):
		return schema.Answer{Department: dept, Kind: schema.AnswerRefusal, Text: RefusalPhrase}
	case matchesSentinel(raw, NoRecordsText):
		return schema.Answer{Department: dept, Kind: schema.AnswerNoRecords, Text: NoRecordsText}
	default:
		return schema.Answer{Department: dept, Kind: schema.AnswerSubstantive, Text: strings.TrimSpace(raw)}
	}
}

// matchesSentinel compares model output against a fixed sentinel phrase,
// tolerating whitespace, wrapping quotes and a missing trailing period.
func matchesSentinel(raw, sentinel string) bool {
	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.Trim(s, `"'`)
		s = strings.TrimSuffix(s, ".")
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return norm(raw) == norm(sentinel)
}

func buildInstructions(info schema.DepartmentInfo, fragments []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s Department of an IT company.\n\n", info.Name)
	b.WriteString("Your responsibilities:\n")
	for _, line := range info.Scope {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\nCompany records:\n\n")
	for i, f := range fragments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(f)
	}
	fmt.Fprintf(&b, `

Rules:
1. Only answer questions within your responsibilities.
2. If the question is outside your scope, respond exactly with:
   %q
3. Answer ONLY from the company records above. Do not invent facts.
4. If the records do not contain the answer, respond exactly with:
   %q
5. Be professional and concise.
6. Do not mention other departments.
`, RefusalPhrase, NoRecordsText)
	return b.String()
}
