package llm

import (
	"context"
	"sync"
)

// Cache memoizes completions by their exact prompt text.
type Cache interface {
	Get(ctx context.Context, prompt string) (string, bool)
	Set(ctx context.Context, prompt, completion string)
}

// MemoryCache is an in-process Cache, meant to live for a single run.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, prompt string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[prompt]
	return v, ok
}

func (c *MemoryCache) Set(_ context.Context, prompt, completion string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[prompt] = completion
}

// Len returns the number of cached prompts.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
