package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/onlystock/stock-momentum/internal/audit"
	"github.com/onlystock/stock-momentum/internal/brain"
	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/internal/s0_universe"
	"github.com/onlystock/stock-momentum/internal/strategyconfig"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Runner is the pipeline surface the jobs need
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
	ResolveUniverse(ctx context.Context, u *s0_universe.Universe) ([]contracts.Instrument, error)
	ClearCache(ctx context.Context) (int, error)
}

// UniverseFactory builds a universe by source name
type UniverseFactory func(name string) (*s0_universe.Universe, error)

// RebalanceJob runs the ranking pipeline for a strategy profile
// ⭐ SSOT: 정기 리밸런싱 스케줄은 이 Job에서만
type RebalanceJob struct {
	runner    Runner
	universes UniverseFactory
	profile   *strategyconfig.Config
	snapshot  *strategyconfig.Snapshot
	logger    *logger.Logger

	mu   sync.RWMutex
	last *brain.RunResult
}

// NewRebalanceJob creates a new rebalance job.
// snapshot may be nil; its hash is attached to the run log when present.
func NewRebalanceJob(runner Runner, universes UniverseFactory, profile *strategyconfig.Config, snapshot *strategyconfig.Snapshot, log *logger.Logger) *RebalanceJob {
	return &RebalanceJob{
		runner:    runner,
		universes: universes,
		profile:   profile,
		snapshot:  snapshot,
		logger:    log,
	}
}

// Name returns the job name
func (j *RebalanceJob) Name() string {
	return "rebalance"
}

// Schedule returns the profile's cron expression
func (j *RebalanceJob) Schedule() string {
	return j.profile.Schedule.Cron
}

// Run executes one ranking run and logs the chosen portfolio
func (j *RebalanceJob) Run(ctx context.Context) error {
	log := j.logger.WithFields(map[string]interface{}{
		"strategy_id": j.profile.Meta.StrategyID,
		"source":      j.profile.Universe.Source,
	})
	if j.snapshot != nil {
		log = log.WithField("config_hash", j.snapshot.ConfigHash)
	}

	universe, err := j.universes(j.profile.Universe.Source)
	if err != nil {
		return fmt.Errorf("build universe: %w", err)
	}

	result, err := j.runner.Run(ctx, brain.RunConfig{
		Universe:    universe,
		Signals:     j.profile.SignalsConfig(),
		WalletSize:  j.profile.Portfolio.WalletSize,
		RetainCache: j.profile.Cache.RetainOnSuccess,
	})
	if result != nil {
		j.mu.Lock()
		j.last = result
		j.mu.Unlock()
	}
	if err != nil {
		return fmt.Errorf("ranking run: %w", err)
	}
	if !result.Status.IsNormal() {
		return fmt.Errorf("ranking run ended with status %s", result.Status)
	}

	fields := map[string]interface{}{
		"run_id": result.RunID,
		"status": result.Status,
	}
	if result.Portfolio != nil {
		fields["tickers"] = result.Portfolio.Tickers()
		fields["average_momentum"] = audit.FormatPercent(result.Portfolio.AverageMomentum())
	}
	log.WithFields(fields).Info("Rebalance portfolio selected")

	return nil
}

// LastResult returns the most recent run, if any
func (j *RebalanceJob) LastResult() (*brain.RunResult, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last, j.last != nil
}
