package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/onlystock/stock-momentum/internal/scheduler"
	"github.com/onlystock/stock-momentum/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `전략 프로필의 cron 으로 정기 리밸런싱을 실행합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/quant scheduler start
  go run ./cmd/quant scheduler list
  go run ./cmd/quant scheduler run rebalance`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업 (프로필 timezone 기준):
- rebalance:        프로필 schedule.cron (schedule.enabled=true 일 때)
- universe_refresh: 매일 06:00 (종목 소스 확인)
- cache_cleanup:    일요일 03:00 (히스토리 캐시 삭제)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	sched.Start()

	PrintSuccess("Scheduler started successfully")
	printJobs(sched)
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()
	printStats(sched)

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	// Next 계산을 위해 잠깐 기동
	sched.Start()
	defer sched.Stop()

	printJobs(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Fprintf(out, "Running job: %s\n", jobName)

	result, err := sched.RunNow(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	PrintSuccess(fmt.Sprintf("%s completed in %s", jobName, result.Duration))
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	fmt.Fprintln(out, "\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next, err := sched.NextRun(jobName)
		if err != nil || next.IsZero() {
			fmt.Fprintf(out, "  - %s\n", jobName)
			continue
		}
		fmt.Fprintf(out, "  - %s (next: %s)\n", jobName, next.Format("2006-01-02 15:04 MST"))
	}
}

func printStats(sched *scheduler.Scheduler) {
	for jobName, stat := range sched.GetJobStats() {
		if stat.TotalRuns == 0 {
			continue
		}
		fmt.Fprintf(out, "📊 %s: %d runs, %.1f%% success\n", jobName, stat.TotalRuns, stat.SuccessRate*100)
	}
}

func initScheduler() (*app, *scheduler.Scheduler, error) {
	a, err := newApp(nil)
	if err != nil {
		return nil, nil, err
	}

	profile, snapshot, err := a.profile()
	if err != nil {
		a.Close()
		return nil, nil, err
	}

	loc, err := profile.Location()
	if err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("schedule timezone: %w", err)
	}

	sched := scheduler.New(a.log, loc)
	if _, err := jobs.Register(sched, a.orchestrator, a.universe, profile, snapshot, a.log); err != nil {
		a.Close()
		return nil, nil, err
	}

	if !profile.Schedule.Enabled {
		a.log.WithField("strategy_id", profile.Meta.StrategyID).Warn("Profile schedule disabled, rebalance job not registered")
	}

	return a, sched, nil
}
