package llm

import "context"

// Provider abstracts the text generation backend. Instructions carry the
// role/system text, input the user payload. One call, no retries at this
// layer beyond what the HTTP client performs.
type Provider interface {
	Generate(ctx context.Context, instructions, input string) (string, error)
}
