package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// pattern matches every key this cache owns
func (c *Cache) pattern() string {
	return c.fullKey("*")
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// Clear removes every key under this cache's prefix and returns how many were deleted
func (c *Cache) Clear(ctx context.Context) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	rdb := c.client.Redis()
	deleted := 0

	iter := rdb.Scan(ctx, 0, c.pattern(), 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache delete failed: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan failed: %w", err)
	}

	return deleted, nil
}

// Cache prefixes. Each owner gets its own so Clear never reaches the other.
const (
	HistoryPrefix  = "momentum-history"  // 일봉 배치
	UniversePrefix = "momentum-universe" // 종목 리스트
)

// Predefined TTLs
const (
	TTLShort  = 10 * time.Minute // 장중 재실행
	TTLMedium = 1 * time.Hour    // 기본 히스토리 캐시
	TTLDaily  = 24 * time.Hour   // 일별 데이터
)

// HistoryKey builds the key of one history batch.
// source is the universe name, fingerprint identifies the symbol set and period.
func HistoryKey(source, fingerprint string) string {
	return fmt.Sprintf("history:%s:%s", strings.ToLower(source), fingerprint)
}

// UniverseKey builds the key of a resolved ticker list
func UniverseKey(source string) string {
	return fmt.Sprintf("universe:%s", strings.ToLower(source))
}
