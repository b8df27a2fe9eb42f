package selection

import (
	"math"
	"sort"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Ranker implements S4: momentum ranking
// ⭐ SSOT: S4 랭킹 로직은 여기서만
type Ranker struct {
	logger *logger.Logger
}

var _ contracts.Ranker = (*Ranker)(nil)

// NewRanker creates a new ranker
func NewRanker(logger *logger.Logger) *Ranker {
	return &Ranker{
		logger: logger,
	}
}

// Rank orders rows by momentum descending (stable for ties), truncates to
// walletSize and assigns 1-based ranks. walletSize <= 0 selects nothing.
func (r *Ranker) Rank(rows []contracts.MetricRow, walletSize int) *contracts.RankedPortfolio {
	portfolio := &contracts.RankedPortfolio{Rows: make([]contracts.RankedRow, 0)}
	if walletSize <= 0 || len(rows) == 0 {
		return portfolio
	}

	sorted := make([]contracts.MetricRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return momentumGreater(sorted[i].Momentum, sorted[j].Momentum)
	})

	n := min(walletSize, len(sorted))
	for i, row := range sorted[:n] {
		portfolio.Rows = append(portfolio.Rows, contracts.RankedRow{
			Rank:      i + 1,
			MetricRow: row,
		})
	}

	r.logger.WithFields(map[string]interface{}{
		"candidates":  len(rows),
		"wallet_size": walletSize,
		"selected":    n,
	}).Info("Ranking completed")

	return portfolio
}

// momentumGreater orders descending; NaN sorts after every number
func momentumGreater(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

// Select runs the screener then the ranker
func Select(screener contracts.Screener, ranker contracts.Ranker, rows []contracts.MetricRow, walletSize int) ([]contracts.MetricRow, *contracts.RankedPortfolio) {
	passed := screener.Screen(rows)
	return passed, ranker.Rank(passed, walletSize)
}
