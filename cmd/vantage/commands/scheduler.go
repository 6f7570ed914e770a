package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/internal/scheduler"
	"github.com/wonny/vantage/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- macro_refresh: 4시간마다 (매크로 스냅샷 갱신)
- calendar_refresh: 매주 일요일 6시 (NYSE 휴장일 갱신)

Subcommands:
  start - 스케줄러 데몬 시작
  run   - 특정 작업 즉시 실행

Example:
  go run ./cmd/vantage scheduler start
  go run ./cmd/vantage scheduler run macro_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// newScheduler wires the scheduler with all jobs registered.
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)
	if err := sched.AddJob(jobs.NewMacroRefreshJob(a.cache, a.bank, nil, a.log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewCalendarRefreshJob(a.calendar, a.log)); err != nil {
		return nil, err
	}
	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Vantage Scheduler ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}

	sched.Start()
	fmt.Println("✅ Scheduler started")
	for _, name := range sched.Jobs() {
		fmt.Printf("   - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}

	jobName := args[0]
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	fmt.Printf("Job %s triggered\n", jobName)

	// RunJob is asynchronous; wait for the run to finish before exiting.
	for {
		history, err := sched.History(jobName)
		if err != nil {
			return err
		}
		if len(history.Results) > 0 {
			result := history.Results[len(history.Results)-1]
			if result.Success {
				fmt.Printf("✅ %s completed in %s\n", jobName, result.Duration)
			} else {
				fmt.Printf("❌ %s failed: %s\n", jobName, result.Error)
			}
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
}
