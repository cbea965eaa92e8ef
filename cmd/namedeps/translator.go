package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ukaji3/namedeps-go/internal/config"
	"github.com/ukaji3/namedeps-go/internal/llm"
	"github.com/ukaji3/namedeps-go/internal/store/valkey"
)

// newTranslator builds the LLM explainer, backed by the Valkey prompt cache
// when VALKEY_ADDR is set. The returned func releases the cache connection.
func newTranslator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*llm.Explainer, func(), error) {
	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("--explain: %w (set LLM_API_KEY or OPENAI_API_KEY)", err)
	}
	cache, closeFn := newPromptCache(ctx, cfg, client.Model(), logger)
	return llm.NewExplainer(client, cache, logger), closeFn, nil
}

func newPromptCache(ctx context.Context, cfg *config.Config, model string, logger *slog.Logger) (llm.Cache, func()) {
	if cfg.Valkey.Addr == "" {
		return llm.NewMemoryCache(), func() {}
	}
	vc, err := valkey.NewClient(ctx, cfg.Valkey)
	if err != nil {
		logger.Warn("valkey unavailable, caching prompts in memory", "error", err)
		return llm.NewMemoryCache(), func() {}
	}
	return valkey.NewPromptCache(vc, model, cfg.Valkey.TTL, logger), vc.Close
}
