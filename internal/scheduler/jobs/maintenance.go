package jobs

import (
	"context"
	"fmt"

	"github.com/onlystock/stock-momentum/pkg/logger"
)

// CacheCleanupJob drops every cached history batch
type CacheCleanupJob struct {
	runner   Runner
	schedule string
	logger   *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(runner Runner, schedule string, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule
func (j *CacheCleanupJob) Schedule() string {
	return j.schedule
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache cleanup")

	count, err := j.runner.ClearCache(ctx)
	if err != nil {
		return fmt.Errorf("clear history cache: %w", err)
	}

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}

	return nil
}
