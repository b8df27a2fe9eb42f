package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlystock/stock-momentum/internal/audit"
	"github.com/onlystock/stock-momentum/internal/brain"
	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/internal/strategyconfig"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := out
	out = buf
	t.Cleanup(func() { out = prev })
	return buf
}

func TestApplyRankOptions(t *testing.T) {
	base := strategyconfig.Default()

	tests := []struct {
		name     string
		opts     rankOptions
		source   string
		momentum int
		ma       int
		wallet   int
		retain   bool
		wantErr  bool
	}{
		{name: "profile defaults", opts: rankOptions{}, source: "ibrx100", momentum: 6, ma: 6, wallet: 5},
		{name: "months override", opts: rankOptions{Source: "sp500", MomentumMonths: 3, MAMonths: 9, Wallet: 10}, source: "sp500", momentum: 3, ma: 9, wallet: 10},
		{name: "day presets", opts: rankOptions{MomentumDays: 90, MADays: 180}, source: "ibrx100", momentum: 3, ma: 6, wallet: 5},
		{name: "months win over days", opts: rankOptions{MomentumMonths: 2, MomentumDays: 180}, source: "ibrx100", momentum: 2, ma: 6, wallet: 5},
		{name: "retain cache", opts: rankOptions{RetainCache: true}, source: "ibrx100", momentum: 6, ma: 6, wallet: 5, retain: true},
		{name: "unknown source", opts: rankOptions{Source: "nasdaq"}, wantErr: true},
		{name: "window too long", opts: rankOptions{MomentumMonths: 13}, wantErr: true},
		{name: "short preset", opts: rankOptions{MADays: 20}, wantErr: true},
		{name: "negative wallet", opts: rankOptions{Wallet: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyRankOptions(base, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.source, got.Universe.Source)
			assert.Equal(t, tt.momentum, got.Signals.MomentumMonths)
			assert.Equal(t, tt.ma, got.Signals.MovingAverageMonths)
			assert.Equal(t, tt.wallet, got.Portfolio.WalletSize)
			assert.Equal(t, tt.retain, got.Cache.RetainOnSuccess)
		})
	}

	assert.Equal(t, "ibrx100", base.Universe.Source, "profile is not mutated")
}

func TestCheckProfile(t *testing.T) {
	buf := captureOutput(t)

	require.NoError(t, checkProfile("../../../config/strategy/ibrx100_dual_momentum.yaml"))
	assert.Contains(t, buf.String(), "ibrx100_dual_momentum")
	assert.Contains(t, buf.String(), "Profile is valid")
}

func TestCheckProfile_Invalid(t *testing.T) {
	buf := captureOutput(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meta:\n  strategy_id: x\n  typo_field: 1\n"), 0o644))

	assert.Error(t, checkProfile(path))
	assert.Contains(t, buf.String(), "❌")
}

func TestPrintReport(t *testing.T) {
	buf := captureOutput(t)

	portfolio := &contracts.RankedPortfolio{Rows: []contracts.RankedRow{
		{Rank: 1, MetricRow: contracts.MetricRow{Ticker: "C", AsOfDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), CurrentPrice: 13, MovingAverage: 11.5, Momentum: 0.3}},
		{Rank: 2, MetricRow: contracts.MetricRow{Ticker: "A", AsOfDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), CurrentPrice: 11, MovingAverage: 10.5, Momentum: 0.1}},
	}}
	summary := audit.NewSummary(audit.Inputs{
		TotalTickers: 3,
		Downloaded:   3,
		Failures:     []contracts.FetchFailure{{Ticker: "D", Symbol: "D.X", Reason: "unknown symbol"}},
		Metrics:      &contracts.MetricSet{Rows: make([]contracts.MetricRow, 3)},
		Passed:       make([]contracts.MetricRow, 2),
		Portfolio:    portfolio,
	})
	result := &brain.RunResult{RunID: "run-1", Status: contracts.StatusOK}

	PrintReport(result, audit.NewReport(portfolio, summary))

	s := buf.String()
	assert.Contains(t, s, "13.00")
	assert.Contains(t, s, "30.00%")
	assert.Contains(t, s, "run-1")
	assert.Contains(t, s, "D (D.X): unknown symbol")
	assert.Contains(t, s, "25.00%", "one failure out of four attempted downloads")
}

func TestPrintReport_NoFailureRateWithoutFailures(t *testing.T) {
	buf := captureOutput(t)

	portfolio := &contracts.RankedPortfolio{}
	summary := audit.NewSummary(audit.Inputs{TotalTickers: 2, Downloaded: 2, Portfolio: portfolio})
	PrintReport(&brain.RunResult{RunID: "run-3", Status: contracts.StatusEmptyResult}, audit.NewReport(portfolio, summary))

	assert.NotContains(t, buf.String(), "Failure rate")
}

func TestPrintReport_Empty(t *testing.T) {
	buf := captureOutput(t)

	result := &brain.RunResult{RunID: "run-2", Status: contracts.StatusEmptyResult}
	PrintReport(result, audit.NewReport(&contracts.RankedPortfolio{}, nil))

	assert.Contains(t, buf.String(), "empty_result")
}
