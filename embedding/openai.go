package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/novatech-ai/deskrouter/common/httpx"
	"github.com/novatech-ai/deskrouter/config"
)

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint.
type OpenAIEmbedder struct {
	Model string

	client openai.Client
}

// NewOpenAIEmbedder builds an embedder from config. As with the LLM
// provider, httpx is the transport and SDK retries stay off.
func NewOpenAIEmbedder(cfg *config.EmbeddingConfig, httpCfg *config.HTTPClientConfig) *OpenAIEmbedder {
	base := "https://api.openai.com/v1"
	apiKey := ""
	e := &OpenAIEmbedder{}
	if cfg != nil {
		if cfg.BaseURL != "" {
			base = cfg.BaseURL
		}
		apiKey = cfg.APIKey
		e.Model = cfg.Model
	}
	e.client = openai.NewClient(
		option.WithBaseURL(strings.TrimRight(base, "/")),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpx.NewFromConfig(httpCfg)),
		option.WithMaxRetries(0),
	)
	return e
}

// GetEmbedding implements Provider.
func (e *OpenAIEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          openai.EmbeddingModel(e.Model),
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: create: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding: empty vector")
	}
	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
