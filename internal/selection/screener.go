package selection

import (
	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Screener implements S3: trend filter
// ⭐ SSOT: S3 스크리닝 로직은 여기서만
type Screener struct {
	logger *logger.Logger
}

var _ contracts.Screener = (*Screener)(nil)

// NewScreener creates a new screener
func NewScreener(logger *logger.Logger) *Screener {
	return &Screener{
		logger: logger,
	}
}

// Screen keeps rows whose current price is strictly above the moving average.
// Input order is preserved.
func (s *Screener) Screen(rows []contracts.MetricRow) []contracts.MetricRow {
	passed := make([]contracts.MetricRow, 0, len(rows))
	for _, row := range rows {
		if row.AboveAverage() {
			passed = append(passed, row)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(rows),
		"passed":       len(passed),
		"filtered_out": len(rows) - len(passed),
	}).Info("Screening completed")

	return passed
}
