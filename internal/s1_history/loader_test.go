package s1_history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// fakeHistory serves canned bars per symbol
type fakeHistory struct {
	bars   map[string][]contracts.Bar
	errs   map[string]error
	calls  []string
	cancel context.CancelFunc // optional: cancel after first call
}

func (f *fakeHistory) FetchDailyHistory(ctx context.Context, symbol, period string) ([]contracts.Bar, error) {
	f.calls = append(f.calls, symbol)
	if f.cancel != nil {
		f.cancel()
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.bars[symbol], nil
}

func series(n int, start float64) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{Date: day.AddDate(0, 0, i), Close: start + float64(i)}
	}
	return bars
}

var instruments = []contracts.Instrument{
	{Ticker: "PETR4", Symbol: "PETR4.SA"},
	{Ticker: "XXXX3", Symbol: "XXXX3.SA"},
	{Ticker: "VALE3", Symbol: "VALE3.SA"},
	{Ticker: "EMPT3", Symbol: "EMPT3.SA"},
}

func newFake() *fakeHistory {
	return &fakeHistory{
		bars: map[string][]contracts.Bar{
			"PETR4.SA": series(5, 10),
			"VALE3.SA": series(3, 50),
		},
		errs: map[string]error{
			"XXXX3.SA": contracts.ErrUnknownSymbol,
		},
	}
}

func TestLoader_Load(t *testing.T) {
	fake := newFake()
	var progress []int
	loader := NewLoader(fake, nil, logger.Nop()).WithProgress(func(done, total int, _ contracts.Ticker) {
		progress = append(progress, done)
		assert.Equal(t, 4, total)
	})

	result, err := loader.Load(context.Background(), "ibrx100", instruments)
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "PETR4", result.Records[0].Ticker)
	assert.Equal(t, "PETR4.SA", result.Records[0].Symbol)
	assert.Equal(t, "VALE3", result.Records[1].Ticker)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, "XXXX3", result.Failures[0].Ticker)
	assert.Equal(t, "EMPT3", result.Failures[1].Ticker)
	assert.Contains(t, result.Failures[1].Reason, "empty history")

	assert.Equal(t, 4, result.Requested())
	assert.False(t, result.FromCache)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)
	assert.Equal(t, []string{"PETR4.SA", "XXXX3.SA", "VALE3.SA", "EMPT3.SA"}, fake.calls, "sequential, input order, no retry")
}

func TestLoader_Empty(t *testing.T) {
	result, err := NewLoader(newFake(), nil, logger.Nop()).Load(context.Background(), "sp500", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Failures)
}

func TestLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := newFake()
	fake.cancel = cancel

	_, err := NewLoader(fake, nil, logger.Nop()).Load(ctx, "ibrx100", instruments)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, fake.calls, 1)
}

func TestLoader_CacheHit(t *testing.T) {
	cache := NewDirCache(t.TempDir(), time.Hour)
	fake := newFake()
	loader := NewLoader(fake, cache, logger.Nop())

	first, err := loader.Load(context.Background(), "ibrx100", instruments)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := loader.Load(context.Background(), "ibrx100", instruments)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.CacheKey, second.CacheKey)
	assert.Len(t, second.Records, 2)
	assert.Len(t, second.Failures, 2)
	assert.Len(t, fake.calls, 4, "second pass served from cache")

	require.NoError(t, loader.Evict(context.Background(), first.CacheKey))
	third, err := loader.Load(context.Background(), "ibrx100", instruments)
	require.NoError(t, err)
	assert.False(t, third.FromCache)
}

func TestLoader_NothingDownloadedIsNotCached(t *testing.T) {
	cache := NewDirCache(t.TempDir(), time.Hour)
	fake := &fakeHistory{errs: map[string]error{"A.SA": errors.New("timeout")}}
	loader := NewLoader(fake, cache, logger.Nop())
	in := []contracts.Instrument{{Ticker: "A", Symbol: "A.SA"}}

	_, err := loader.Load(context.Background(), "ibrx100", in)
	require.NoError(t, err)

	_, found, err := cache.Get(context.Background(), Key("ibrx100", in, contracts.DefaultPeriod))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoader_NormalizesBars(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	fake := &fakeHistory{bars: map[string][]contracts.Bar{
		"A": {{Date: day.AddDate(0, 0, 1), Close: 2}, {Date: day, Close: 1}},
	}}

	result, err := NewLoader(fake, nil, logger.Nop()).Load(context.Background(), "sp500", []contracts.Instrument{{Ticker: "A", Symbol: "A"}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, result.Records[0].Closes())
}

func TestEvict_EmptyKey(t *testing.T) {
	assert.NoError(t, NewLoader(newFake(), nil, logger.Nop()).Evict(context.Background(), ""))
}
