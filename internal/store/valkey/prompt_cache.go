package valkey

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	promptKeyPrefix  = "namedeps:prompt:"
	defaultPromptTTL = 7 * 24 * time.Hour
)

// PromptCache stores completions in Valkey, keyed by a hash of the model and
// the full prompt text. Lookup failures count as misses.
type PromptCache struct {
	client valkey.Client
	model  string
	ttl    time.Duration
	logger *slog.Logger
}

// NewPromptCache creates a prompt cache for completions produced by model.
func NewPromptCache(client valkey.Client, model string, ttl time.Duration, logger *slog.Logger) *PromptCache {
	if ttl <= 0 {
		ttl = defaultPromptTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PromptCache{client: client, model: model, ttl: ttl, logger: logger}
}

// Get returns the cached completion for prompt.
func (c *PromptCache) Get(ctx context.Context, prompt string) (string, bool) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(PromptKey(c.model, prompt)).Build())
	v, err := resp.ToString()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			c.logger.Warn("prompt cache lookup failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	return v, true
}

// Set stores the completion for prompt with the cache TTL.
func (c *PromptCache) Set(ctx context.Context, prompt, completion string) {
	key := PromptKey(c.model, prompt)
	resp := c.client.Do(ctx, c.client.B().Set().Key(key).Value(completion).Ex(c.ttl).Build())
	if err := resp.Error(); err != nil {
		c.logger.Warn("prompt cache store failed", slog.String("error", err.Error()))
	}
}

// PromptKey derives the Valkey key for a model and prompt.
func PromptKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return promptKeyPrefix + hex.EncodeToString(sum[:])
}
