package jobs

import (
	"fmt"

	"github.com/onlystock/stock-momentum/internal/scheduler"
	"github.com/onlystock/stock-momentum/internal/strategyconfig"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Maintenance schedules (profile timezone)
const (
	UniverseRefreshSchedule = "0 6 * * *" // daily 06:00
	CacheCleanupSchedule    = "0 3 * * 0" // Sunday 03:00
)

// Register adds the profile's jobs to sched.
// The rebalance job is only registered when the profile schedule is enabled.
func Register(sched *scheduler.Scheduler, runner Runner, universes UniverseFactory, profile *strategyconfig.Config, snapshot *strategyconfig.Snapshot, log *logger.Logger) (*RebalanceJob, error) {
	var rebalance *RebalanceJob
	if profile.Schedule.Enabled {
		rebalance = NewRebalanceJob(runner, universes, profile, snapshot, log)
		if err := sched.AddJob(rebalance); err != nil {
			return nil, fmt.Errorf("register rebalance: %w", err)
		}
	}

	if err := sched.AddJob(NewUniverseRefreshJob(runner, universes, profile.Universe.Source, UniverseRefreshSchedule, log)); err != nil {
		return nil, fmt.Errorf("register universe refresh: %w", err)
	}
	if err := sched.AddJob(NewCacheCleanupJob(runner, CacheCleanupSchedule, log)); err != nil {
		return nil, fmt.Errorf("register cache cleanup: %w", err)
	}

	return rebalance, nil
}
