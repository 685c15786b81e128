package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/novatech-ai/deskrouter/common/httpx"
	"github.com/novatech-ai/deskrouter/config"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Groq, local gateways). Temperature 0 keeps routing deterministic.
type OpenAIProvider struct {
	Model       string
	Temperature float64
	MaxTokens   int

	client openai.Client
}

// NewOpenAIProvider builds a provider from config. Outbound calls go through
// the shared httpx client; SDK-level retries are disabled so httpx keeps
// sole ownership of the retry and circuit policy.
func NewOpenAIProvider(cfg *config.LLMConfig, httpCfg *config.HTTPClientConfig) *OpenAIProvider {
	base := "https://api.openai.com/v1"
	apiKey := ""
	p := &OpenAIProvider{}
	if cfg != nil {
		if cfg.BaseURL != "" {
			base = cfg.BaseURL
		}
		apiKey = cfg.APIKey
		p.Model = cfg.Model
		p.Temperature = cfg.Temperature
		p.MaxTokens = cfg.MaxTokens
	}
	p.client = openai.NewClient(
		option.WithBaseURL(strings.TrimRight(base, "/")),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpx.NewFromConfig(httpCfg)),
		option.WithMaxRetries(0),
	)
	return p
}

// Generate implements Provider with a single chat completion call.
func (p *OpenAIProvider) Generate(ctx context.Context, instructions, input string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if instructions != "" {
		messages = append(messages, openai.SystemMessage(instructions))
	}
	messages = append(messages, openai.UserMessage(input))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.Model),
		Messages:    messages,
		Temperature: openai.Float(p.Temperature),
	}
	if p.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
