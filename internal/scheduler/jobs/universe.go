package jobs

import (
	"context"
	"fmt"

	"github.com/onlystock/stock-momentum/pkg/logger"
)

// UniverseRefreshJob resolves the profile's ticker source ahead of the
// rebalance so a cached list is warm and a broken source shows up early
type UniverseRefreshJob struct {
	runner    Runner
	universes UniverseFactory
	source    string
	schedule  string
	logger    *logger.Logger
}

// NewUniverseRefreshJob creates a new universe refresh job
func NewUniverseRefreshJob(runner Runner, universes UniverseFactory, source, schedule string, log *logger.Logger) *UniverseRefreshJob {
	return &UniverseRefreshJob{
		runner:    runner,
		universes: universes,
		source:    source,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *UniverseRefreshJob) Name() string {
	return "universe_refresh"
}

// Schedule returns the cron schedule
func (j *UniverseRefreshJob) Schedule() string {
	return j.schedule
}

// Run resolves the universe and logs its size
func (j *UniverseRefreshJob) Run(ctx context.Context) error {
	universe, err := j.universes(j.source)
	if err != nil {
		return fmt.Errorf("build universe: %w", err)
	}

	instruments, err := j.runner.ResolveUniverse(ctx, universe)
	if err != nil {
		return err
	}

	log := j.logger.WithFields(map[string]interface{}{
		"source": j.source,
		"count":  len(instruments),
	})
	if len(instruments) == 0 {
		log.Warn("Universe resolved to no tickers")
		return nil
	}
	log.Info("Universe refreshed")

	return nil
}
