package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/wishwell/wishwell-go/pkg/api"
	"github.com/wishwell/wishwell-go/pkg/appcontext"
	"github.com/wishwell/wishwell-go/pkg/metrics"
)

// DefaultRefetchAttempts bounds background refetches of stale entries.
// Network and 5xx failures retry up to the ceiling; 4xx never retries.
const DefaultRefetchAttempts = 3

// Loader layers stale-while-revalidate semantics over a Cache backend. A
// fresh entry is served without a network call; a stale entry is served
// immediately while a bounded background refetch repopulates it; a missing
// entry is fetched inline.
type Loader struct {
	cache    Cache
	attempts int
	logger   ectologger.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewLoader creates a loader over the given backend. attempts <= 0 falls back
// to DefaultRefetchAttempts.
func NewLoader(cache Cache, attempts int, logger ectologger.Logger) *Loader {
	if attempts <= 0 {
		attempts = DefaultRefetchAttempts
	}
	return &Loader{
		cache:    cache,
		attempts: attempts,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Cache exposes the underlying backend for mutation-side invalidation.
func (l *Loader) Cache() Cache {
	return l.cache
}

// Invalidate applies the prefixes as one batch on the underlying backend.
func (l *Loader) Invalidate(ctx context.Context, prefixes ...Key) error {
	return l.cache.Invalidate(ctx, prefixes...)
}

// GetOrFetch resolves a query through the cache. The fetch function is only
// invoked on a miss (inline) or a stale hit (in the background, detached from
// the caller's cancellation, since navigating away must not abort the request).
func GetOrFetch[T any](ctx context.Context, l *Loader, key Key, staleAfter time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if !appcontext.GetFreshRead(ctx) {
		entry, err := l.cache.Get(ctx, key)
		if err != nil {
			l.logger.WithContext(ctx).WithError(err).Warnf("cache read failed for %s", key)
		}
		if entry != nil {
			var cached T
			if decodeErr := json.Unmarshal(entry.Value, &cached); decodeErr != nil {
				l.logger.WithContext(ctx).WithError(decodeErr).Warnf("dropping undecodable cache entry %s", key)
			} else if !entry.IsStale(time.Now()) {
				metrics.CacheReadsTotal.WithLabelValues(key.Family(), "hit").Inc()
				return cached, nil
			} else {
				metrics.CacheReadsTotal.WithLabelValues(key.Family(), "stale").Inc()
				refetchInBackground(ctx, l, key, staleAfter, fetch)
				return cached, nil
			}
		}
	}

	metrics.CacheReadsTotal.WithLabelValues(key.Family(), "miss").Inc()

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	if err := l.store(ctx, key, staleAfter, value); err != nil {
		l.logger.WithContext(ctx).WithError(err).Warnf("cache write failed for %s", key)
	}
	return value, nil
}

func (l *Loader) store(ctx context.Context, key Key, staleAfter time.Duration, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value %s: %w", key, err)
	}
	return l.cache.Set(ctx, key, data, staleAfter)
}

// refetchInBackground revalidates a stale entry with a bounded retry loop. At
// most one refetch per key is in flight at a time. Failures below the retry
// ceiling are logged, never surfaced.
func refetchInBackground[T any](ctx context.Context, l *Loader, key Key, staleAfter time.Duration, fetch func(ctx context.Context) (T, error)) {
	flat := key.String()

	l.mu.Lock()
	if _, busy := l.inflight[flat]; busy {
		l.mu.Unlock()
		return
	}
	l.inflight[flat] = struct{}{}
	l.mu.Unlock()

	detached := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			l.mu.Lock()
			delete(l.inflight, flat)
			l.mu.Unlock()
		}()

		for attempt := 1; attempt <= l.attempts; attempt++ {
			value, err := fetch(detached)
			if err == nil {
				if storeErr := l.store(detached, key, staleAfter, value); storeErr != nil {
					l.logger.WithContext(detached).WithError(storeErr).Warnf("cache write failed for %s", key)
				}
				metrics.RefetchesTotal.WithLabelValues(key.Family(), "success").Inc()
				return
			}

			if !api.IsRetryable(err) {
				metrics.RefetchesTotal.WithLabelValues(key.Family(), "aborted").Inc()
				l.logger.WithContext(detached).WithError(err).Debugf("refetch of %s not retryable", key)
				return
			}

			l.logger.WithContext(detached).WithError(err).Debugf("refetch of %s failed (attempt %d/%d)", key, attempt, l.attempts)
		}

		metrics.RefetchesTotal.WithLabelValues(key.Family(), "exhausted").Inc()
		l.logger.WithContext(detached).Warnf("refetch of %s exhausted %d attempts, keeping stale entry", key, l.attempts)
	}()
}
