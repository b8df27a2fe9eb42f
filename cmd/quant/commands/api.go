package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/onlystock/stock-momentum/internal/api"
	"github.com/onlystock/stock-momentum/internal/api/handlers"
	"github.com/onlystock/stock-momentum/internal/auth"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

/api 아래 엔드포인트는 AUTH_USER / AUTH_PASSWORD 기반 HTTP Basic 인증이 필요합니다.
자격 증명이 설정되지 않으면 503 을 반환합니다.

Endpoints:
  GET    /health                 - Health check
  POST   /api/rankings           - 랭킹 실행 (동기)
  GET    /api/universes          - 종목 소스 목록
  GET    /api/universes/{name}   - 종목 소스 해석
  DELETE /api/cache              - 히스토리 캐시 삭제

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default is PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	profile, snapshot, err := a.profile()
	if err != nil {
		return err
	}

	authenticator := auth.New(a.cfg.Auth)
	if !authenticator.Configured() {
		a.log.Warn("AUTH_USER / AUTH_PASSWORD not set, /api endpoints will refuse requests")
	}

	a.log.WithFields(map[string]interface{}{
		"port":        a.cfg.Port,
		"env":         a.cfg.Env,
		"strategy_id": profile.Meta.StrategyID,
		"config_hash": snapshot.ConfigHash,
	}).Info("Initializing API server")

	rankingHandler := handlers.NewRankingHandler(a.orchestrator, a.universe, profile, a.log)
	router := api.NewRouter(rankingHandler, authenticator, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(out, "\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	a.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
