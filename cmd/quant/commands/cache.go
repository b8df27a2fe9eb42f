package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "히스토리 캐시 관리",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "캐시된 일봉 전체 삭제",
	Long: `다운로드된 일봉 캐시를 모두 삭제합니다.
Redis 사용 시 Redis 키를, 아니면 CACHE_DIR 의 파일을 삭제합니다.

Example:
  go run ./cmd/quant cache clear`,
	RunE: runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.orchestrator.ClearCache(cmd.Context())
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Removed %d cached batch(es) from %s cache", removed, a.loader.Cache().Name()))
	return nil
}
