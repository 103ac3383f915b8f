package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wishwell/wishwell-go/pkg/metrics"
)

// MemoryCache is the default in-process backend. A single mutex covers every
// operation, so a multi-key invalidation is never observed half-applied.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Entry),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key Key) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key.String()]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (c *MemoryCache) Set(ctx context.Context, key Key, value []byte, staleAfter time.Duration) error {
	now := time.Now()
	entry := &Entry{
		Value:     value,
		FetchedAt: now,
		StaleAt:   now.Add(staleAfter),
	}

	c.mu.Lock()
	c.entries[key.String()] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, prefixes ...Key) error {
	flat := make([]string, len(prefixes))
	for i, prefix := range prefixes {
		flat[i] = prefix.String() + KeySeparator
		metrics.CacheInvalidationsTotal.WithLabelValues(prefix.Family()).Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for stored := range c.entries {
		for i, prefix := range flat {
			if stored == prefixes[i].String() || strings.HasPrefix(stored, prefix) {
				delete(c.entries, stored)
				break
			}
		}
	}
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}
