package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/report"
	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/logger"
)

// DefaultReportSchedule runs after the A-share close on weekdays
const DefaultReportSchedule = "30 15 * * 1-5"

// Reporter computes one report
type Reporter interface {
	Run(ctx context.Context, settings *stockconfig.Settings) (*contracts.Report, error)
}

// ReportWriter persists one report
type ReportWriter interface {
	Write(rep *contracts.Report) (*report.Artifacts, error)
}

// SettingsFunc returns the stock settings for one run
type SettingsFunc func() (*stockconfig.Settings, error)

// ReportJob computes and writes the ROI report
type ReportJob struct {
	reporter Reporter
	writer   ReportWriter
	settings SettingsFunc
	schedule string
	logger   *logger.Logger

	mu   sync.Mutex
	last *report.Artifacts
}

// NewReportJob creates a new report job. settings is called on every run
// so edits to the stock file apply from the next run.
func NewReportJob(reporter Reporter, writer ReportWriter, settings SettingsFunc, schedule string, log *logger.Logger) *ReportJob {
	if schedule == "" {
		schedule = DefaultReportSchedule
	}
	return &ReportJob{
		reporter: reporter,
		writer:   writer,
		settings: settings,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ReportJob) Name() string {
	return "roi_report"
}

// Schedule returns the cron schedule
func (j *ReportJob) Schedule() string {
	return j.schedule
}

// Run executes one report
func (j *ReportJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled ROI report")

	settings, err := j.settings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	rep, err := j.reporter.Run(ctx, settings)
	if err != nil {
		return fmt.Errorf("compute report: %w", err)
	}

	art, err := j.writer.Write(rep)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	j.mu.Lock()
	j.last = art
	j.mu.Unlock()

	j.logger.WithFields(map[string]interface{}{
		"rows":     len(rep.Rows),
		"workbook": art.Workbook,
	}).Info("Scheduled ROI report completed")

	return nil
}

// LastArtifacts returns the files of the latest successful run, nil before one
func (j *ReportJob) LastArtifacts() *report.Artifacts {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
