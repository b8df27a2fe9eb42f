package s1_history

import (
	"context"
	"fmt"
	"time"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// ProgressFunc is called after each ticker is attempted
type ProgressFunc func(done, total int, ticker contracts.Ticker)

// Loader downloads daily history one ticker at a time
// ⭐ SSOT: S1 히스토리 수집은 여기서만
type Loader struct {
	source   contracts.HistorySource
	cache    Cache
	logger   *logger.Logger
	period   string
	progress ProgressFunc
}

// LoadResult is the output of a download pass
type LoadResult struct {
	Records   []contracts.HistoryRecord `json:"records"`
	Failures  []contracts.FetchFailure  `json:"failures"`
	CacheKey  string                    `json:"cache_key"`
	FromCache bool                      `json:"from_cache"`
	Duration  time.Duration             `json:"duration"`
}

// Requested returns how many tickers were attempted
func (r *LoadResult) Requested() int {
	return len(r.Records) + len(r.Failures)
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(source contracts.HistorySource, cache Cache, log *logger.Logger) *Loader {
	if cache == nil {
		cache = NopCache{}
	}
	return &Loader{
		source: source,
		cache:  cache,
		logger: log,
		period: contracts.DefaultPeriod,
	}
}

// WithProgress sets the progress callback
func (l *Loader) WithProgress(fn ProgressFunc) *Loader {
	l.progress = fn
	return l
}

// WithLogger returns a copy of the loader logging through log
func (l *Loader) WithLogger(log *logger.Logger) *Loader {
	clone := *l
	clone.logger = log
	return &clone
}

// Cache returns the loader's cache
func (l *Loader) Cache() Cache {
	return l.cache
}

// Load downloads history for every instrument sequentially.
// A failed ticker is logged, recorded and skipped; only cancellation of ctx
// aborts the pass.
func (l *Loader) Load(ctx context.Context, source string, instruments []contracts.Instrument) (*LoadResult, error) {
	start := time.Now()
	key := Key(source, instruments, l.period)

	if batch, found, err := l.cache.Get(ctx, key); err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("History cache read failed")
	} else if found {
		l.logger.WithFields(map[string]interface{}{
			"key":     key,
			"records": len(batch.Records),
			"backend": l.cache.Name(),
		}).Info("History cache hit")
		return &LoadResult{
			Records:   batch.Records,
			Failures:  batch.Failures,
			CacheKey:  key,
			FromCache: true,
			Duration:  time.Since(start),
		}, nil
	}

	l.logger.WithFields(map[string]interface{}{
		"source":  source,
		"tickers": len(instruments),
		"period":  l.period,
	}).Info("Downloading history")

	result := &LoadResult{
		Records:  make([]contracts.HistoryRecord, 0, len(instruments)),
		Failures: make([]contracts.FetchFailure, 0),
		CacheKey: key,
	}

	for i, in := range instruments {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("history download cancelled after %d/%d: %w", i, len(instruments), err)
		}

		bars, err := l.source.FetchDailyHistory(ctx, in.Symbol, l.period)
		if err == nil && len(bars) == 0 {
			err = contracts.ErrEmptyHistory
		}

		if err != nil {
			// 취소로 인한 실패는 종목 실패가 아님
			if ctx.Err() != nil {
				return nil, fmt.Errorf("history download cancelled after %d/%d: %w", i, len(instruments), ctx.Err())
			}
			l.logger.WithFields(map[string]interface{}{
				"ticker": in.Ticker,
				"symbol": in.Symbol,
				"error":  err.Error(),
			}).Warn("History download failed, skipping")
			result.Failures = append(result.Failures, contracts.FetchFailure{
				Ticker: in.Ticker,
				Symbol: in.Symbol,
				Reason: err.Error(),
			})
		} else {
			result.Records = append(result.Records, contracts.NewHistoryRecord(in.Ticker, in.Symbol, bars))
		}

		if l.progress != nil {
			l.progress(i+1, len(instruments), in.Ticker)
		}
	}

	result.Duration = time.Since(start)

	l.logger.WithFields(map[string]interface{}{
		"downloaded": len(result.Records),
		"failed":     len(result.Failures),
		"duration":   result.Duration.String(),
	}).Info("Download complete")

	if len(result.Records) > 0 {
		batch := &Batch{Records: result.Records, Failures: result.Failures}
		if err := l.cache.Put(ctx, key, batch); err != nil {
			l.logger.WithError(err).WithField("key", key).Warn("History cache write failed")
		}
	}

	return result, nil
}

// Evict removes the cached batch of a finished run
func (l *Loader) Evict(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return l.cache.Evict(ctx, key)
}
