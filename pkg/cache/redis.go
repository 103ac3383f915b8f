package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/wishwell/wishwell-go/pkg/metrics"
)

const (
	// redisNamespace prefixes every cache key in Redis
	redisNamespace = "wishwell:cache:"

	// redisHardTTL bounds how long an entry may linger past its staleness
	// window before Redis drops it outright
	redisHardTTL = 24 * time.Hour
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisCache is a shared cache backend over Redis, for consumers that want
// cache state to survive restarts or to be shared across processes.
type RedisCache struct {
	rdb    *redis.Client
	logger ectologger.Logger
}

// NewRedisCache connects to Redis and returns a cache backend.
func NewRedisCache(cfg RedisConfig, logger ectologger.Logger) (*RedisCache, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Infof("Connected to Redis at %s", addr)

	return &RedisCache{rdb: rdb, logger: logger}, nil
}

func (c *RedisCache) Get(ctx context.Context, key Key) (*Entry, error) {
	data, err := c.rdb.Get(ctx, redisNamespace+key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return &entry, nil
}

func (c *RedisCache) Set(ctx context.Context, key Key, value []byte, staleAfter time.Duration) error {
	now := time.Now()
	entry := Entry{
		Value:     value,
		FetchedAt: now,
		StaleAt:   now.Add(staleAfter),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return c.rdb.Set(ctx, redisNamespace+key.String(), data, redisHardTTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, prefixes ...Key) error {
	var toDelete []string
	for _, prefix := range prefixes {
		// Match children on a part boundary plus the exact key itself, so
		// "wishlists" never sweeps up a "wishlists-archive" family.
		pattern := redisNamespace + prefix.String() + KeySeparator + "*"
		keys, err := c.rdb.Keys(ctx, pattern).Result()
		if err != nil {
			return fmt.Errorf("redis keys %s: %w", pattern, err)
		}
		toDelete = append(toDelete, keys...)
		toDelete = append(toDelete, redisNamespace+prefix.String())
		metrics.CacheInvalidationsTotal.WithLabelValues(prefix.Family()).Inc()
	}

	if len(toDelete) == 0 {
		return nil
	}
	// Single DEL keeps the batch atomic for concurrent readers
	if err := c.rdb.Del(ctx, toDelete...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	keys, err := c.rdb.Keys(ctx, redisNamespace+"*").Result()
	if err != nil {
		return fmt.Errorf("redis keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
