// Package cache implements the client-side query cache: a hierarchical key
// scheme, stale-while-revalidate reads and fan-out prefix invalidation, over
// an in-memory or Redis backend.
package cache

import (
	"context"
	"time"
)

// Entry is a cached value with its staleness bookkeeping.
type Entry struct {
	Value     []byte    `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
	StaleAt   time.Time `json:"stale_at"`
}

// IsStale reports whether the entry is past its staleness window.
func (e *Entry) IsStale(now time.Time) bool {
	return !now.Before(e.StaleAt)
}

// Cache is the storage contract shared by the memory and Redis backends.
// Invalidate applies all prefixes as one logical batch: a concurrent reader
// observes either none or all of the evictions.
type Cache interface {
	Get(ctx context.Context, key Key) (*Entry, error)
	Set(ctx context.Context, key Key, value []byte, staleAfter time.Duration) error
	Invalidate(ctx context.Context, prefixes ...Key) error
	Clear(ctx context.Context) error
	Close() error
}
