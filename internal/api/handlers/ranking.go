package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/onlystock/stock-momentum/internal/audit"
	"github.com/onlystock/stock-momentum/internal/brain"
	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/internal/s0_universe"
	"github.com/onlystock/stock-momentum/internal/s2_signals"
	"github.com/onlystock/stock-momentum/internal/strategyconfig"
	"github.com/onlystock/stock-momentum/pkg/logger"
)

// Runner is the pipeline surface the API needs
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
	ResolveUniverse(ctx context.Context, u *s0_universe.Universe) ([]contracts.Instrument, error)
	ClearCache(ctx context.Context) (int, error)
}

// UniverseFactory builds a universe by source name
type UniverseFactory func(name string) (*s0_universe.Universe, error)

// RankingHandler handles ranking-related API endpoints
// ⭐ SSOT: 랭킹 API 핸들러는 이 구조체에서만
type RankingHandler struct {
	runner    Runner
	universes UniverseFactory
	defaults  *strategyconfig.Config
	logger    *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(runner Runner, universes UniverseFactory, defaults *strategyconfig.Config, log *logger.Logger) *RankingHandler {
	if defaults == nil {
		defaults = strategyconfig.Default()
	}
	return &RankingHandler{
		runner:    runner,
		universes: universes,
		defaults:  defaults,
		logger:    log,
	}
}

// RankingRequest is the body of POST /api/rankings.
// Omitted fields fall back to the loaded strategy profile.
// Day presets (30/90/180) are converted to months when months are omitted.
type RankingRequest struct {
	Source              string `json:"source"`
	MomentumMonths      int    `json:"momentum_months"`
	MovingAverageMonths int    `json:"moving_average_months"`
	MomentumDays        int    `json:"momentum_days"`
	MovingAverageDays   int    `json:"moving_average_days"`
	WalletSize          int    `json:"wallet_size"`
	RetainCache         *bool  `json:"retain_cache"`
}

// RankingResponse is returned by POST /api/rankings
type RankingResponse struct {
	RunID      string                  `json:"run_id"`
	Status     contracts.RunStatus     `json:"status"`
	Source     string                  `json:"source"`
	Signals    s2_signals.Config       `json:"signals"`
	WalletSize int                     `json:"wallet_size"`
	Report     *audit.Report           `json:"report"`
	Stages     []contracts.StageResult `json:"stages"`
	Events     []logger.Entry          `json:"events"`
	DurationMs int64                   `json:"duration_ms"`
}

// resolve merges the request with defaults and validates it
func (h *RankingHandler) resolve(req RankingRequest) (brain.RunConfig, string, error) {
	source := req.Source
	if source == "" {
		source = h.defaults.Universe.Source
	}

	momentum := req.MomentumMonths
	if momentum == 0 && req.MomentumDays > 0 {
		momentum = s2_signals.MonthsFromDays(req.MomentumDays)
	}
	if momentum == 0 {
		momentum = h.defaults.Signals.MomentumMonths
	}

	ma := req.MovingAverageMonths
	if ma == 0 && req.MovingAverageDays > 0 {
		ma = s2_signals.MonthsFromDays(req.MovingAverageDays)
	}
	if ma == 0 {
		ma = h.defaults.Signals.MovingAverageMonths
	}

	wallet := req.WalletSize
	if wallet == 0 {
		wallet = h.defaults.Portfolio.WalletSize
	}

	retain := h.defaults.Cache.RetainOnSuccess
	if req.RetainCache != nil {
		retain = *req.RetainCache
	}

	if err := strategyconfig.ValidateMonths(momentum); err != nil {
		return brain.RunConfig{}, "", errors.New("momentum_months " + err.Error())
	}
	if err := strategyconfig.ValidateMonths(ma); err != nil {
		return brain.RunConfig{}, "", errors.New("moving_average_months " + err.Error())
	}
	if wallet < 1 {
		return brain.RunConfig{}, "", errors.New("wallet_size must be >= 1")
	}

	universe, err := h.universes(source)
	if err != nil {
		return brain.RunConfig{}, "", err
	}

	return brain.RunConfig{
		Universe:    universe,
		Signals:     s2_signals.Config{MomentumMonths: momentum, MovingAverageMonths: ma},
		WalletSize:  wallet,
		RetainCache: retain,
	}, source, nil
}

// CreateRanking runs the pipeline synchronously
// POST /api/rankings
func (h *RankingHandler) CreateRanking(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	runCfg, source, err := h.resolve(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := h.runner.Run(r.Context(), runCfg)
	if err != nil {
		h.logger.WithError(err).WithField("source", source).Error("Ranking run failed")
		switch {
		case errors.Is(err, contracts.ErrSourceUnavailable):
			respondError(w, http.StatusBadGateway, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respondError(w, http.StatusServiceUnavailable, "Ranking run cancelled")
		default:
			respondError(w, http.StatusInternalServerError, "Ranking run failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, RankingResponse{
		RunID:      result.RunID,
		Status:     result.Status,
		Source:     result.Source,
		Signals:    result.Signals,
		WalletSize: result.WalletSize,
		Report:     audit.NewReport(result.Portfolio, result.Summary),
		Stages:     result.Stages,
		Events:     result.Events,
		DurationMs: time.Since(start).Milliseconds(),
	})
}

// ClearCache evicts every cached history batch
// DELETE /api/cache
func (h *RankingHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.runner.ClearCache(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Cache clear failed")
		respondError(w, http.StatusInternalServerError, "Cache clear failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cleared": n,
	})
}
