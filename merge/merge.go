package merge

import (
	"context"
	"fmt"
	"strings"

	"github.com/novatech-ai/deskrouter/llm"
	"github.com/novatech-ai/deskrouter/schema"
)

const instructions = `You are a senior manager of the company.

Combine the department responses into ONE clear, professional, and
non-repetitive final answer.

Rules:
1. Keep every distinct fact from the responses; drop nothing.
2. Remove redundancy where responses overlap.
3. Do not add information that is not in the responses.
4. Do not mention departments.
5. Ensure logical flow.`

// Synthesizer combines several department answers into one reply phrased
// from a single voice.
type Synthesizer struct {
	Provider llm.Provider
}

// Merge synthesizes the answers for query. Callers must pass at least two
// answers; the single-answer case bypasses merge entirely. A generation
// failure is reported as *schema.GenerationError with no concatenation
// fallback.
func (s *Synthesizer) Merge(ctx context.Context, query string, answers []schema.Answer) (string, error) {
	if len(answers) < 2 {
		return "", fmt.Errorf("merge: need at least 2 answers, got %d", len(answers))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "User query:\n%s\n\nDepartment responses:\n", query)
	for _, a := range answers {
		fmt.Fprintf(&b, "\n[%s]\n%s\n", a.Department, a.Text)
	}
	out, err := s.Provider.Generate(ctx, instructions, b.String())
	if err != nil {
		return "", &schema.GenerationError{Stage: "merge", Err: err}
	}
	return strings.TrimSpace(out), nil
}
