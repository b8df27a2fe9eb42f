package s0_universe

import (
	"context"
	"time"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/logger"
	"github.com/onlystock/stock-momentum/pkg/redis"
)

// Store is the key/value cache used for resolved ticker lists
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedSource memoizes a source's ticker list for ttl.
// Cache errors are logged and never fail the resolution.
type CachedSource struct {
	inner  contracts.TickerSource
	store  Store
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps inner with store
func NewCachedSource(inner contracts.TickerSource, store Store, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{inner: inner, store: store, ttl: ttl, logger: log}
}

// Name returns the wrapped source name
func (s *CachedSource) Name() string {
	return s.inner.Name()
}

// Resolve returns the cached list or resolves and stores it
func (s *CachedSource) Resolve(ctx context.Context) ([]contracts.Ticker, error) {
	key := redis.UniverseKey(s.inner.Name())

	var cached []contracts.Ticker
	found, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Universe cache read failed")
	}
	if found && len(cached) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"source": s.inner.Name(),
			"count":  len(cached),
		}).Debug("Universe cache hit")
		return cached, nil
	}

	tickers, err := s.inner.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	// 빈 목록은 캐시하지 않음
	if len(tickers) > 0 && s.ttl > 0 {
		if err := s.store.Set(ctx, key, tickers, s.ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Universe cache write failed")
		}
	}

	return tickers, nil
}
