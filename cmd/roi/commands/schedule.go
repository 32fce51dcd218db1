package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/roicalc/internal/scheduler"
	"github.com/wonny/roicalc/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "정기 리포트 스케줄러 시작",
	Long: `Runs the report on SCHEDULE_CRON (default "30 15 * * 1-5",
weekdays after the close, Asia/Shanghai time). The settings file is
re-read before every run.

Example:
  go run ./cmd/roi schedule
  go run ./cmd/roi schedule --now
  go run ./cmd/roi schedule --cron "0 18 * * *"`,
	RunE: runSchedule,
}

var (
	scheduleNow  bool
	scheduleCron string
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "run once immediately before waiting")
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression, overrides SCHEDULE_CRON")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	cronExpr := a.cfg.ScheduleCron
	if scheduleCron != "" {
		cronExpr = scheduleCron
	}

	sched := scheduler.New(a.log, marketLocation())
	job := jobs.NewReportJob(a.runner, a.writer, a.loadSettings, cronExpr, a.log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	if scheduleNow {
		result, err := sched.RunJob(context.Background(), job.Name())
		if err != nil {
			return err
		}
		if result.Success {
			PrintSuccess(fmt.Sprintf("%s completed in %.2fs", job.Name(), result.Duration.Seconds()))
		} else {
			PrintError(fmt.Sprintf("%s failed: %s", job.Name(), result.Error))
		}
	}

	sched.Start()

	if next, err := sched.NextRun(job.Name()); err == nil {
		PrintInfo(fmt.Sprintf("Next run: %s", next.Format("2006-01-02 15:04 MST")))
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	stats := sched.GetJobStats()
	for _, name := range sched.GetAllJobs() {
		st := stats[name]
		a.log.WithFields(map[string]interface{}{
			"job":      name,
			"runs":     st.TotalRuns,
			"failures": st.FailureCount,
			"avg":      st.AverageDuration(),
		}).Info("Scheduler run summary")
		PrintInfo(runSummary(st))
	}

	return nil
}

// runSummary is the one-line shutdown report of a job
func runSummary(st scheduler.JobStats) string {
	if st.TotalRuns == 0 {
		return fmt.Sprintf("%s: no runs", st.JobName)
	}

	line := fmt.Sprintf("%s: %d runs, %d failed (%.0f%% ok), avg %.2fs",
		st.JobName, st.TotalRuns, st.FailureCount, st.SuccessRate*100, st.AverageDuration().Seconds())
	if st.LastFailure != nil {
		line += fmt.Sprintf(", last error at %s: %s", st.LastFailure.Format("2006-01-02 15:04"), st.LastError)
	}
	return line
}

// marketLocation is the exchange time zone
func marketLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}
