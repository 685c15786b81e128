package main

import (
	"fmt"
	"time"

	"github.com/novatech-ai/deskrouter/classifier"
	"github.com/novatech-ai/deskrouter/common/tokens"
	"github.com/novatech-ai/deskrouter/config"
	"github.com/novatech-ai/deskrouter/embedding"
	"github.com/novatech-ai/deskrouter/ingest"
	"github.com/novatech-ai/deskrouter/llm"
	"github.com/novatech-ai/deskrouter/merge"
	"github.com/novatech-ai/deskrouter/orchestrator"
	"github.com/novatech-ai/deskrouter/responder"
	"github.com/novatech-ai/deskrouter/retriever"
	"github.com/novatech-ai/deskrouter/router"
	"github.com/novatech-ai/deskrouter/schema"
	"github.com/novatech-ai/deskrouter/vectordb"
)

// app holds the wired pipeline for one process.
type app struct {
	cfg      *config.Config
	registry *schema.Registry
	store    vectordb.Store
	embed    embedding.Provider
	router   *router.Router
	pipeline *orchestrator.Orchestrator
	ingestor *ingest.Ingestor
}

func buildApp(cfg *config.Config) (*app, error) {
	registry := cfg.Registry()
	if registry.Len() == 0 {
		return nil, fmt.Errorf("no departments configured")
	}

	provider := llm.NewOpenAIProvider(&cfg.LLM, &cfg.HTTPClient)

	var embed embedding.Provider = embedding.NewOpenAIEmbedder(&cfg.Embedding, &cfg.HTTPClient)
	if cfg.Embedding.CacheSize > 0 {
		embed = embedding.NewCached(embed, cfg.Embedding.CacheSize,
			time.Duration(cfg.Embedding.CacheTTLSeconds)*time.Second)
	}

	store, err := vectordb.New(&cfg.VectorDB, &cfg.HTTPClient)
	if err != nil {
		return nil, err
	}
	if mem, ok := store.(*vectordb.MemoryStore); ok {
		if err := mem.Load(); err != nil {
			return nil, err
		}
	}

	rt := &router.Router{
		Classifier: classifier.New(provider, registry),
		Registry:   registry,
	}
	resp := &responder.Responder{Provider: provider, Registry: registry}
	if cfg.LLM.MaxPromptTokens > 0 {
		resp.Tokens = tokens.NewCounter(cfg.LLM.Model)
		resp.PromptBudget = cfg.LLM.MaxPromptTokens
	}
	pipeline := &orchestrator.Orchestrator{
		Router: rt,
		Retriever: &retriever.Scoped{
			Embed:     embed,
			Store:     store,
			TopK:      cfg.Retrieval.TopK,
			Threshold: cfg.Retrieval.Threshold,
		},
		Responder:            resp,
		Merger:               &merge.Synthesizer{Provider: provider},
		Registry:             registry,
		TopK:                 cfg.Retrieval.TopK,
		PerDepartmentTimeout: time.Duration(cfg.Pipeline.PerDepartmentTimeoutMs) * time.Millisecond,
	}

	return &app{
		cfg:      cfg,
		registry: registry,
		store:    store,
		embed:    embed,
		router:   rt,
		pipeline: pipeline,
		ingestor: &ingest.Ingestor{
			Embed:         embed,
			Store:         store,
			Registry:      registry,
			MinSectionLen: cfg.Ingest.MinSectionLen,
		},
	}, nil
}
