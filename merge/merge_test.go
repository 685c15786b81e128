package merge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/novatech-ai/deskrouter/schema"
)

type stubProvider struct {
	response string
	err      error
	input    string
}

func (s *stubProvider) Generate(_ context.Context, _, input string) (string, error) {
	s.input = input
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestSynthesizer_Merge(t *testing.T) {
	p := &stubProvider{response: "Combined reply."}
	s := &Synthesizer{Provider: p}

	answers := []schema.Answer{
		{Department: "Sales", Kind: schema.AnswerSubstantive, Text: "Plans start at $10 per seat."},
		{Department: "Finance", Kind: schema.AnswerSubstantive, Text: "Invoices are net 30."},
	}
	out, err := s.Merge(context.Background(), "pricing and payment terms?", answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Combined reply." {
		t.Fatalf("out = %q", out)
	}
	// Each answer must appear labeled by department.
	for _, want := range []string{"[Sales]", "Plans start at $10 per seat.", "[Finance]", "Invoices are net 30."} {
		if !strings.Contains(p.input, want) {
			t.Fatalf("merge input missing %q:\n%s", want, p.input)
		}
	}
}

func TestSynthesizer_RequiresTwoAnswers(t *testing.T) {
	s := &Synthesizer{Provider: &stubProvider{response: "x"}}
	for _, answers := range [][]schema.Answer{
		nil,
		{{Department: "Sales", Text: "only one"}},
	} {
		if _, err := s.Merge(context.Background(), "q", answers); err == nil {
			t.Fatalf("expected precondition error for %d answers", len(answers))
		}
	}
}

func TestSynthesizer_GenerationFailure(t *testing.T) {
	s := &Synthesizer{Provider: &stubProvider{err: errors.New("backend down")}}
	answers := []schema.Answer{
		{Department: "Sales", Text: "a"},
		{Department: "Finance", Text: "b"},
	}
	_, err := s.Merge(context.Background(), "q", answers)
	var genErr *schema.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %v, want *schema.GenerationError", err)
	}
	if genErr.Stage != "merge" {
		t.Fatalf("Stage = %q", genErr.Stage)
	}
}
