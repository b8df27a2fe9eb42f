package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/onlystock/stock-momentum/internal/brain"
	"github.com/onlystock/stock-momentum/internal/external/yahoo"
	"github.com/onlystock/stock-momentum/internal/s0_universe"
	"github.com/onlystock/stock-momentum/internal/s1_history"
	"github.com/onlystock/stock-momentum/internal/strategyconfig"
	"github.com/onlystock/stock-momentum/pkg/config"
	"github.com/onlystock/stock-momentum/pkg/httputil"
	"github.com/onlystock/stock-momentum/pkg/logger"
	"github.com/onlystock/stock-momentum/pkg/redis"
)

// universeListTTL is how long a resolved constituent list stays in Redis
const universeListTTL = 24 * time.Hour

// app holds the wired dependencies shared by the commands
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	redis        *redis.Client
	httpClient   *httputil.Client
	loader       *s1_history.Loader
	orchestrator *brain.Orchestrator
}

// newApp loads config and wires the pipeline.
// progress may be nil.
func newApp(progress s1_history.ProgressFunc) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to Redis (disabled client when REDIS_ENABLED=false)
	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 4. Create HTTP client (local pacing + shared Redis budget)
	httpClient := httputil.New(cfg, log).WithLimiter(cfg.Yahoo.RatePerSec)
	if cfg.Yahoo.RatePerSec > 0 {
		httpClient = httpClient.WithRateLimiter(redis.NewRateLimiter(rdb, "momentum"), redis.YahooRateLimit(cfg.Yahoo.RatePerSec))
	}

	// 5. History source + cache
	source := yahoo.NewClient(httpClient, log, cfg.Yahoo.BaseURL)
	cache := s1_history.NewCache(cfg, rdb)
	loader := s1_history.NewLoader(source, cache, log)
	if progress != nil {
		loader = loader.WithProgress(progress)
	}

	log.WithFields(map[string]interface{}{
		"cache": cache.Name(),
		"redis": rdb.Enabled(),
	}).Debug("Pipeline wired")

	return &app{
		cfg:          cfg,
		log:          log,
		redis:        rdb,
		httpClient:   httpClient,
		loader:       loader,
		orchestrator: brain.NewOrchestrator(loader, log),
	}, nil
}

// Close releases the Redis connection
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}

// universe builds a named universe, caching the list in Redis when enabled
func (a *app) universe(name string) (*s0_universe.Universe, error) {
	u, err := s0_universe.New(name, a.cfg, a.httpClient, a.log)
	if err != nil {
		return nil, err
	}
	if a.redis.Enabled() {
		u.Source = s0_universe.NewCachedSource(u.Source, redis.NewCache(a.redis, redis.UniversePrefix), universeListTTL, a.log)
	}
	return u, nil
}

// profile loads the strategy profile, falling back to the built-in default
// when the file does not exist
func (a *app) profile() (*strategyconfig.Config, *strategyconfig.Snapshot, error) {
	cfg, data, err := strategyconfig.Load(a.cfg.StrategyFile)
	if errors.Is(err, fs.ErrNotExist) {
		a.log.WithField("path", a.cfg.StrategyFile).Warn("Strategy profile not found, using defaults")
		cfg = strategyconfig.Default()
		data = nil
	} else if err != nil {
		return nil, nil, fmt.Errorf("load strategy %s: %w", a.cfg.StrategyFile, err)
	}

	snapshot, err := strategyconfig.NewSnapshot(cfg, data)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot strategy: %w", err)
	}
	return cfg, snapshot, nil
}
