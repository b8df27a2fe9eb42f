package redis

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/onlystock/stock-momentum/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")
	cfg := YahooRateLimit(2)

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != cfg.Limit {
		t.Errorf("Expected remaining = %d, got %d", cfg.Limit, remaining)
	}
	if err := limiter.Wait(context.Background(), cfg); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var result string
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	n, err := cache.Clear(ctx)
	if err != nil || n != 0 {
		t.Errorf("Clear() = %d, %v; want 0, nil", n, err)
	}
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "HistoryKey",
			fn:       func() string { return HistoryKey("IBRX100", "ab12cd") },
			expected: "history:ibrx100:ab12cd",
		},
		{
			name:     "UniverseKey",
			fn:       func() string { return UniverseKey("SP500") },
			expected: "universe:sp500",
		},
		{
			name:     "fullKey",
			fn:       func() string { return NewCache(&Client{}, HistoryPrefix).fullKey("history:sp100:x") },
			expected: "momentum-history:cache:history:sp100:x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCacheClearPattern_Scoped(t *testing.T) {
	history := NewCache(&Client{}, HistoryPrefix)
	universe := NewCache(&Client{}, UniversePrefix)

	historyKey := history.fullKey(HistoryKey("sp500", "ab12cd"))
	universeKey := universe.fullKey(UniverseKey("sp500"))

	// path.Match follows the same glob rules as SCAN MATCH for these keys
	ok, err := path.Match(history.pattern(), historyKey)
	if err != nil || !ok {
		t.Errorf("history Clear should match %q (err=%v)", historyKey, err)
	}

	ok, err = path.Match(history.pattern(), universeKey)
	if err != nil || ok {
		t.Errorf("history Clear must not match universe list %q (err=%v)", universeKey, err)
	}

	ok, err = path.Match(universe.pattern(), historyKey)
	if err != nil || ok {
		t.Errorf("universe Clear must not match history batch %q (err=%v)", historyKey, err)
	}
}

func TestYahooRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		perSecond  float64
		wantLimit  int
		wantWindow time.Duration
	}{
		{"two per second", 2, 2, time.Second},
		{"half per second", 0.5, 1, 2 * time.Second},
		{"disabled falls back to one per second", 0, 1, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := YahooRateLimit(tt.perSecond)
			if cfg.Key != "yahoo" {
				t.Errorf("Key = %q, want yahoo", cfg.Key)
			}
			if cfg.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", cfg.Limit, tt.wantLimit)
			}
			if cfg.Window != tt.wantWindow {
				t.Errorf("Window = %v, want %v", cfg.Window, tt.wantWindow)
			}
		})
	}
}
