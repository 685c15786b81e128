package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/novatech-ai/deskrouter/schema"
)

// Config is the root configuration for the deskrouter service.
type Config struct {
	Server      ServerConfig            `json:"server" yaml:"server"`
	Log         LogConfig               `json:"log" yaml:"log"`
	LLM         LLMConfig               `json:"llm" yaml:"llm"`
	Embedding   EmbeddingConfig         `json:"embedding" yaml:"embedding"`
	VectorDB    VectorDBConfig          `json:"vectordb" yaml:"vectordb"`
	Retrieval   RetrievalConfig         `json:"retrieval" yaml:"retrieval"`
	Pipeline    PipelineConfig          `json:"pipeline" yaml:"pipeline"`
	HTTPClient  HTTPClientConfig        `json:"http_client" yaml:"http_client"`
	Ingest      IngestConfig            `json:"ingest" yaml:"ingest"`
	Departments []schema.DepartmentInfo `json:"departments,omitempty" yaml:"departments,omitempty"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// LogConfig controls process logging.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"` // debug, info, warn, error
	JSON  bool   `json:"json,omitempty" yaml:"json,omitempty"`
}

// LLMConfig defines the chat completion backend. The API key may be left
// empty and supplied through the environment variable named by APIKeyEnv.
type LLMConfig struct {
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv   string  `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// MaxPromptTokens bounds the retrieved context packed into responder
	// instructions, counted with the model's tiktoken encoding. Zero
	// disables the bound.
	MaxPromptTokens int `json:"max_prompt_tokens,omitempty" yaml:"max_prompt_tokens,omitempty"`
}

// EmbeddingConfig defines the embedding backend used at query and ingest time.
type EmbeddingConfig struct {
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv       string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL         string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model           string `json:"model,omitempty" yaml:"model,omitempty"`
	CacheSize       int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// VectorDBConfig selects the vector store backend.
type VectorDBConfig struct {
	Provider   string `json:"provider" yaml:"provider"`             // memory, qdrant
	Path       string `json:"path,omitempty" yaml:"path,omitempty"` // snapshot file for the memory provider
	Endpoint   string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// RetrievalConfig bounds per-department context retrieval.
type RetrievalConfig struct {
	TopK      int     `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// PipelineConfig holds orchestration knobs.
type PipelineConfig struct {
	// PerDepartmentTimeoutMs bounds each department's retrieve+answer leg
	// during fan-out. Zero means no per-leg deadline beyond the request's.
	PerDepartmentTimeoutMs int `json:"per_department_timeout_ms,omitempty" yaml:"per_department_timeout_ms,omitempty"`
}

// HTTPClientConfig tunes the shared outbound HTTP client.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
}

// IngestConfig controls policy document ingestion.
type IngestConfig struct {
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	MinSectionLen int    `json:"min_section_len,omitempty" yaml:"min_section_len,omitempty"`
}

// Default returns the built-in configuration: the five stock departments
// with their scope bullets, Groq-compatible model defaults, and the
// in-memory vector store.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
		LLM: LLMConfig{
			APIKeyEnv:   "GROQ_API_KEY",
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.1-8b-instant",
			Temperature: 0, // deterministic routing
			MaxTokens:   2048,
			// roughly half of the model's context window, leaving room
			// for the scope bullets, rules and the query itself
			MaxPromptTokens: 6000,
		},
		// Groq serves chat completions only, so embeddings default to the
		// OpenAI endpoint that actually hosts text-embedding-3-small.
		Embedding: EmbeddingConfig{
			APIKeyEnv:       "OPENAI_API_KEY",
			BaseURL:         "https://api.openai.com/v1",
			Model:           "text-embedding-3-small",
			CacheSize:       512,
			CacheTTLSeconds: 300,
		},
		VectorDB: VectorDBConfig{
			Provider:   "memory",
			Collection: "policy",
		},
		Retrieval: RetrievalConfig{TopK: 4},
		Pipeline:  PipelineConfig{PerDepartmentTimeoutMs: 30000},
		Ingest:    IngestConfig{MinSectionLen: 50},
		Departments: []schema.DepartmentInfo{
			{Name: "HR", Scope: []string{
				"Hiring and interviews",
				"Leave requests",
				"Payroll and salary",
				"Employee benefits",
				"Internal policies",
			}},
			{Name: "Engineering", Scope: []string{
				"Code issues and bugs",
				"System architecture",
				"Deployment",
				"Infrastructure",
				"APIs and technical stack",
			}},
			{Name: "Sales", Scope: []string{
				"Pricing and product packages",
				"Business proposals",
				"Client onboarding offers",
				"High-level billing explanation",
				"Pricing structure discussion",
			}},
			{Name: "Finance", Scope: []string{
				"Invoice generation",
				"Payment terms",
				"Budget and revenue",
				"Cost breakdown",
				"Billing details",
			}},
			{Name: "Support", Scope: []string{
				"Customer complaints",
				"Account problems",
				"Login issues",
				"Usage guidance",
				"Feature confusion",
			}},
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults untouched. API keys named by *_env fields are resolved from
// the environment when the literal key is unset.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.resolveEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolveEnv() {
	if c.LLM.APIKey == "" && c.LLM.APIKeyEnv != "" {
		c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
	if c.Embedding.APIKey == "" && c.Embedding.APIKeyEnv != "" {
		c.Embedding.APIKey = os.Getenv(c.Embedding.APIKeyEnv)
	}
}

// Registry builds the immutable department registry from configuration.
func (c *Config) Registry() *schema.Registry {
	return schema.NewRegistry(c.Departments)
}
