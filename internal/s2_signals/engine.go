package s2_signals

import (
	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Config holds the metric windows in whole months
type Config struct {
	MomentumMonths      int `yaml:"momentum_months" json:"momentum_months"`
	MovingAverageMonths int `yaml:"moving_average_months" json:"moving_average_months"`
}

// DefaultConfig is the 6 month / 6 month preset
func DefaultConfig() Config {
	return Config{MomentumMonths: 6, MovingAverageMonths: 6}
}

// MonthsFromDays converts a calendar-day preset (30, 90, 180) to whole months
func MonthsFromDays(days int) int {
	return days / 30
}

// MomentumWindow returns the momentum window in observations
func (c Config) MomentumWindow() int {
	return contracts.MonthsToWindow(c.MomentumMonths)
}

// MovingAverageWindow returns the moving average window in observations
func (c Config) MovingAverageWindow() int {
	return contracts.MonthsToWindow(c.MovingAverageMonths)
}

// RequiredObservations is the minimum history length for a row to be emitted
func (c Config) RequiredObservations() int {
	return max(c.MomentumWindow(), c.MovingAverageWindow())
}

// Engine computes momentum and moving average per ticker
// ⭐ SSOT: S2 지표 계산은 여기서만
type Engine struct {
	config Config
	logger *logger.Logger
}

var _ contracts.MetricEngine = (*Engine)(nil)

// NewEngine creates a new metric engine
func NewEngine(config Config, log *logger.Logger) *Engine {
	return &Engine{
		config: config,
		logger: log,
	}
}

// Config returns the engine windows
func (e *Engine) Config() Config {
	return e.config
}

// Compute emits one MetricRow per record with enough history.
// Short records are excluded silently and reported in MetricSet.Excluded.
// Output order follows input order.
func (e *Engine) Compute(records []contracts.HistoryRecord) *contracts.MetricSet {
	set := &contracts.MetricSet{
		Rows:     make([]contracts.MetricRow, 0, len(records)),
		Excluded: make(map[contracts.Ticker]string),
	}

	momentumWindow := e.config.MomentumWindow()
	maWindow := e.config.MovingAverageWindow()

	for _, rec := range records {
		row, ok := e.computeOne(rec, momentumWindow, maWindow)
		if !ok {
			set.Excluded[rec.Ticker] = contracts.ExclusionInsufficientHistory
			continue
		}
		set.Rows = append(set.Rows, row)
	}

	e.logger.WithFields(map[string]interface{}{
		"total_input":     len(records),
		"computed":        len(set.Rows),
		"excluded":        len(set.Excluded),
		"momentum_window": momentumWindow,
		"ma_window":       maWindow,
	}).Info("Metrics computed")

	return set
}

func (e *Engine) computeOne(rec contracts.HistoryRecord, momentumWindow, maWindow int) (contracts.MetricRow, bool) {
	bars := contracts.NormalizeBars(rec.Bars)
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	momentum, ok := Momentum(closes, momentumWindow)
	if !ok {
		e.logger.WithFields(map[string]interface{}{
			"ticker":       rec.Ticker,
			"observations": len(closes),
			"required":     momentumWindow,
		}).Debug("Insufficient history for momentum")
		return contracts.MetricRow{}, false
	}

	movingAverage, ok := MovingAverage(closes, maWindow)
	if !ok {
		e.logger.WithFields(map[string]interface{}{
			"ticker":       rec.Ticker,
			"observations": len(closes),
			"required":     maWindow,
		}).Debug("Insufficient history for moving average")
		return contracts.MetricRow{}, false
	}

	last := bars[len(bars)-1]
	return contracts.MetricRow{
		Ticker:        rec.Ticker,
		AsOfDate:      last.Date,
		CurrentPrice:  last.Close,
		Momentum:      momentum,
		MovingAverage: movingAverage,
	}, true
}
