package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onlystock/stock-momentum/internal/audit"
	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/internal/s0_universe"
	"github.com/onlystock/stock-momentum/internal/s1_history"
	"github.com/onlystock/stock-momentum/internal/s2_signals"
	"github.com/onlystock/stock-momentum/internal/selection"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Orchestrator coordinates the ranking pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	loader *s1_history.Loader
	logger *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID       string // generated when empty
	Universe    *s0_universe.Universe
	Signals     s2_signals.Config
	WalletSize  int
	RetainCache bool // keep the history cache entry after a successful run
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID        string                     `json:"run_id"`
	Source       string                     `json:"source"`
	Status       contracts.RunStatus        `json:"status"`
	Signals      s2_signals.Config          `json:"signals"`
	WalletSize   int                        `json:"wallet_size"`
	StartedAt    time.Time                  `json:"started_at"`
	Duration     time.Duration              `json:"duration"`
	Stages       []contracts.StageResult    `json:"stages"`
	Instruments  []contracts.Instrument     `json:"-"`
	History      *s1_history.LoadResult     `json:"-"`
	Metrics      *contracts.MetricSet       `json:"-"`
	Passed       []contracts.MetricRow      `json:"-"`
	Portfolio    *contracts.RankedPortfolio `json:"-"`
	Summary      *audit.Summary             `json:"summary"`
	Events       []logger.Entry             `json:"events"`
	CacheEvicted bool                       `json:"cache_evicted"`
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(loader *s1_history.Loader, logger *logger.Logger) *Orchestrator {
	return &Orchestrator{
		loader: loader,
		logger: logger,
	}
}

// Run executes the pipeline
// S0 → S1 → S2 → S3 → S4
//
// A ticker source failure is returned wrapped in contracts.ErrSourceUnavailable.
// Empty intermediate results end the run early with a normal status and no error.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	if config.Universe == nil || config.Universe.Source == nil {
		return nil, fmt.Errorf("run config: universe is required")
	}

	runID := config.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	// 실행 단위 로그 버퍼 (전역 상태 없음)
	journal := logger.NewJournal(logger.DefaultJournalCapacity)
	log := o.logger.WithField("run_id", runID).WithHook(journal)

	result := &RunResult{
		RunID:      runID,
		Source:     config.Universe.Source.Name(),
		Signals:    config.Signals,
		WalletSize: config.WalletSize,
		StartedAt:  time.Now(),
		Stages:     make([]contracts.StageResult, 0, len(contracts.AllStages())),
	}
	defer func() {
		result.Duration = time.Since(result.StartedAt)
		result.Summary = o.summarize(result)
		result.Events = journal.Entries()
	}()

	log.WithFields(map[string]interface{}{
		"source":          result.Source,
		"momentum_months": config.Signals.MomentumMonths,
		"ma_months":       config.Signals.MovingAverageMonths,
		"wallet_size":     config.WalletSize,
	}).Info("Starting ranking run")

	// S0: Universe
	stageStart := time.Now()
	tickers, err := config.Universe.Source.Resolve(ctx)
	if err != nil {
		log.WithError(err).Error("Run aborted at S0")
		o.recordStage(result, contracts.StageUniverse, 0, 0, stageStart, err)
		result.Status = contracts.StatusFailed
		return result, fmt.Errorf("%w: %s: %w", contracts.ErrSourceUnavailable, result.Source, err)
	}
	result.Instruments = s0_universe.Apply(tickers, config.Universe.Transform)
	o.recordStage(result, contracts.StageUniverse, len(tickers), len(result.Instruments), stageStart, nil)

	if len(result.Instruments) == 0 {
		log.Warn("Ticker source returned no tickers")
		result.Status = contracts.StatusEmptyUniverse
		return result, nil
	}

	// S1: History
	stageStart = time.Now()
	history, err := o.loader.WithLogger(log).Load(ctx, result.Source, result.Instruments)
	if err != nil {
		o.recordStage(result, contracts.StageHistory, len(result.Instruments), 0, stageStart, err)
		result.Status = contracts.StatusFailed
		return result, fmt.Errorf("S1 failed: %w", err)
	}
	result.History = history
	o.recordStage(result, contracts.StageHistory, len(result.Instruments), len(history.Records), stageStart, nil)

	if len(history.Records) == 0 {
		log.Warn("No history downloaded")
		result.Status = contracts.StatusNoHistory
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		result.Status = contracts.StatusFailed
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	// S2: Signals
	stageStart = time.Now()
	result.Metrics = s2_signals.NewEngine(config.Signals, log).Compute(history.Records)
	o.recordStage(result, contracts.StageSignals, len(history.Records), result.Metrics.Count(), stageStart, nil)

	// S3 + S4: Screener, Ranker
	stageStart = time.Now()
	result.Passed = selection.NewScreener(log).Screen(result.Metrics.Rows)
	o.recordStage(result, contracts.StageScreener, result.Metrics.Count(), len(result.Passed), stageStart, nil)

	stageStart = time.Now()
	result.Portfolio = selection.NewRanker(log).Rank(result.Passed, config.WalletSize)
	o.recordStage(result, contracts.StageRanker, len(result.Passed), result.Portfolio.Len(), stageStart, nil)

	switch {
	case result.Metrics.Count() == 0:
		result.Status = contracts.StatusNoMetrics
	case result.Portfolio.IsEmpty():
		result.Status = contracts.StatusEmptyResult
	default:
		result.Status = contracts.StatusOK
	}

	// 성공한 실행만 캐시 정리, 실패 시 TTL 동안 재사용
	if !config.RetainCache {
		if err := o.loader.Evict(ctx, history.CacheKey); err != nil {
			log.WithError(err).Warn("History cache eviction failed")
		} else {
			result.CacheEvicted = true
		}
	}

	log.WithFields(map[string]interface{}{
		"status":   result.Status,
		"analyzed": result.Metrics.Count(),
		"passed":   len(result.Passed),
		"selected": result.Portfolio.Len(),
		"duration": time.Since(result.StartedAt).String(),
	}).Info("Ranking run completed")

	return result, nil
}

// ResolveUniverse runs S0 only and returns the instruments a run would fetch
func (o *Orchestrator) ResolveUniverse(ctx context.Context, u *s0_universe.Universe) ([]contracts.Instrument, error) {
	tickers, err := u.Source.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", contracts.ErrSourceUnavailable, u.Source.Name(), err)
	}
	return s0_universe.Apply(tickers, u.Transform), nil
}

// ClearCache evicts every cached history batch
func (o *Orchestrator) ClearCache(ctx context.Context) (int, error) {
	return o.loader.Cache().Clear(ctx)
}

func (o *Orchestrator) recordStage(result *RunResult, stage contracts.Stage, in, out int, start time.Time, err error) {
	sr := contracts.StageResult{
		Stage:       stage,
		InputCount:  in,
		OutputCount: out,
		Duration:    time.Since(start).Milliseconds(),
	}
	if err != nil {
		sr.Error = err.Error()
	}
	result.Stages = append(result.Stages, sr)
}

func (o *Orchestrator) summarize(result *RunResult) *audit.Summary {
	in := audit.Inputs{
		TotalTickers: len(result.Instruments),
		Metrics:      result.Metrics,
		Passed:       result.Passed,
		Portfolio:    result.Portfolio,
	}
	if result.History != nil {
		in.Downloaded = len(result.History.Records)
		in.Failures = result.History.Failures
	}
	return audit.NewSummary(in)
}
