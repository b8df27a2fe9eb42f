package s1_history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/config"
	"github.com/onlystock/stock-momentum/pkg/redis"
)

// Batch is the cached outcome of one download pass
type Batch struct {
	Records   []contracts.HistoryRecord `json:"records"`
	Failures  []contracts.FetchFailure  `json:"failures"`
	StoredAt  time.Time                 `json:"stored_at"`
	ExpiresAt time.Time                 `json:"expires_at"`
}

// Expired reports whether the batch is past its expiry at now
func (b *Batch) Expired(now time.Time) bool {
	return !b.ExpiresAt.IsZero() && !now.Before(b.ExpiresAt)
}

// Cache stores downloaded batches keyed by source, symbols and period
// ⭐ SSOT: 히스토리 캐시 인터페이스
type Cache interface {
	Get(ctx context.Context, key string) (*Batch, bool, error)
	Put(ctx context.Context, key string, batch *Batch) error
	Evict(ctx context.Context, key string) error
	Clear(ctx context.Context) (int, error)
	Name() string
}

// Key builds the cache key for a download pass
func Key(source string, instruments []contracts.Instrument, period string) string {
	h := sha256.New()
	h.Write([]byte(period))
	for _, in := range instruments {
		h.Write([]byte{0})
		h.Write([]byte(in.Ticker))
		h.Write([]byte{'='})
		h.Write([]byte(in.Symbol))
	}
	fingerprint := hex.EncodeToString(h.Sum(nil))[:16]
	return redis.HistoryKey(source, fingerprint)
}

// NewCache picks the backend from config:
// TTL 0 → NopCache, Redis enabled → RedisCache, otherwise DirCache
func NewCache(cfg *config.Config, client *redis.Client) Cache {
	if cfg.Cache.TTL <= 0 {
		return NopCache{}
	}
	if client != nil && client.Enabled() {
		return NewRedisCache(redis.NewCache(client, redis.HistoryPrefix), cfg.Cache.TTL)
	}
	return NewDirCache(cfg.Cache.Dir, cfg.Cache.TTL)
}

// NopCache never stores anything
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Batch, bool, error) { return nil, false, nil }
func (NopCache) Put(context.Context, string, *Batch) error         { return nil }
func (NopCache) Evict(context.Context, string) error               { return nil }
func (NopCache) Clear(context.Context) (int, error)                { return 0, nil }
func (NopCache) Name() string                                      { return "none" }

// RedisCache stores batches in Redis with a native TTL
type RedisCache struct {
	cache *redis.Cache
	ttl   time.Duration
}

// NewRedisCache creates a Redis backed cache
func NewRedisCache(cache *redis.Cache, ttl time.Duration) *RedisCache {
	return &RedisCache{cache: cache, ttl: ttl}
}

// Get retrieves a batch
func (c *RedisCache) Get(ctx context.Context, key string) (*Batch, bool, error) {
	var batch Batch
	found, err := c.cache.Get(ctx, key, &batch)
	if err != nil || !found {
		return nil, false, err
	}
	return &batch, true, nil
}

// Put stores a batch for the configured TTL
func (c *RedisCache) Put(ctx context.Context, key string, batch *Batch) error {
	now := time.Now()
	stored := *batch
	stored.StoredAt = now
	stored.ExpiresAt = now.Add(c.ttl)
	return c.cache.Set(ctx, key, &stored, c.ttl)
}

// Evict removes a batch
func (c *RedisCache) Evict(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// Clear removes every batch under the prefix
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	return c.cache.Clear(ctx)
}

// Name returns the backend name
func (c *RedisCache) Name() string {
	return "redis"
}

// batchFilePrefix marks the files DirCache owns inside CACHE_DIR
const batchFilePrefix = "batch_"

// fileName maps a cache key to a file name inside the cache directory
func fileName(key string) string {
	return batchFilePrefix + strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key) + ".json"
}
