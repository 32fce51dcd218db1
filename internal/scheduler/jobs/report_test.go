package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roicalc/internal/contracts"
	"github.com/wonny/roicalc/internal/report"
	"github.com/wonny/roicalc/internal/stockconfig"
	"github.com/wonny/roicalc/pkg/logger"
)

type stubReporter struct {
	err  error
	seen *stockconfig.Settings
}

func (s *stubReporter) Run(_ context.Context, settings *stockconfig.Settings) (*contracts.Report, error) {
	s.seen = settings
	if s.err != nil {
		return nil, s.err
	}
	return &contracts.Report{
		GeneratedAt: time.Date(2025, 10, 15, 15, 30, 0, 0, time.UTC),
		Rows:        []contracts.ROIResult{{Symbol: settings.Stocks[0].Symbol}},
	}, nil
}

type stubWriter struct {
	written int
}

func (s *stubWriter) Write(rep *contracts.Report) (*report.Artifacts, error) {
	s.written++
	return &report.Artifacts{Workbook: "roi_" + rep.Timestamp() + ".xlsx"}, nil
}

func staticSettings() (*stockconfig.Settings, error) {
	return &stockconfig.Settings{Stocks: []contracts.StockConfig{{Name: "Moutai", Symbol: "SH600519"}}}, nil
}

func TestReportJobRun(t *testing.T) {
	rep := &stubReporter{}
	w := &stubWriter{}
	job := NewReportJob(rep, w, staticSettings, "", logger.NewNop())

	assert.Equal(t, "roi_report", job.Name())
	assert.Equal(t, DefaultReportSchedule, job.Schedule())
	assert.Nil(t, job.LastArtifacts())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, w.written)
	assert.Equal(t, "SH600519", rep.seen.Stocks[0].Symbol)
	require.NotNil(t, job.LastArtifacts())
	assert.Equal(t, "roi_20251015_153000.xlsx", job.LastArtifacts().Workbook)
}

func TestReportJobErrors(t *testing.T) {
	t.Run("settings", func(t *testing.T) {
		w := &stubWriter{}
		job := NewReportJob(&stubReporter{}, w, func() (*stockconfig.Settings, error) {
			return nil, stockconfig.ErrNoStocks
		}, "@daily", logger.NewNop())

		err := job.Run(context.Background())
		assert.ErrorIs(t, err, stockconfig.ErrNoStocks)
		assert.Zero(t, w.written)
	})

	t.Run("compute", func(t *testing.T) {
		w := &stubWriter{}
		job := NewReportJob(&stubReporter{err: errors.New("boom")}, w, staticSettings, "@daily", logger.NewNop())

		assert.Error(t, job.Run(context.Background()))
		assert.Zero(t, w.written)
		assert.Nil(t, job.LastArtifacts())
	})
}
