package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/llm"
	"github.com/novatech-ai/deskrouter/schema"
)

// ErrUnavailable signals that the underlying generation call itself failed.
// The router recovers from it by fanning out to every department; it is
// never surfaced to the caller.
var ErrUnavailable = errors.New("classifier unavailable")

// Result is the tagged outcome of one classification. Malformed marks
// output from which no department payload could be extracted; it maps to
// the same empty set but stays distinguishable from a clean empty answer.
type Result struct {
	Departments []schema.Department
	Malformed   bool
}

// Gateway wraps the generation backend behind a strict classify contract.
type Gateway struct {
	provider     llm.Provider
	registry     *schema.Registry
	instructions string
}

// New builds a gateway. The routing instructions are rendered once from
// the department registry and reused for every query.
func New(provider llm.Provider, registry *schema.Registry) *Gateway {
	return &Gateway{
		provider:     provider,
		registry:     registry,
		instructions: buildInstructions(registry),
	}
}

// Classify asks the model for the departments covering query. Extraneous
// text around the JSON payload and unknown department names are tolerated;
// only a failed generation call is an error.
func (g *Gateway) Classify(ctx context.Context, query string) (Result, error) {
	raw, err := g.provider.Generate(ctx, g.instructions, query)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res := Parse(raw, g.registry)
	if res.Malformed {
		logger.Warnf("classifier: unparseable output, treating as empty set: %.120q", raw)
	}
	return res, nil
}

func buildInstructions(registry *schema.Registry) string {
	var b strings.Builder
	b.WriteString("You are an internal routing system for an IT company.\n\n")
	b.WriteString("Available Departments:\n")
	for _, name := range registry.All() {
		info, _ := registry.Info(name)
		b.WriteString("\n")
		b.WriteString(string(info.Name))
		b.WriteString(":\n")
		for _, line := range info.Scope {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(`
Rules:
1. Return ONLY valid JSON.
2. Do NOT explain reasoning.
3. Do NOT answer the user.
4. If unclear, return: {"departments": []}

Output format:
{
  "departments": ["DepartmentName"]
}
`)
	return b.String()
}
