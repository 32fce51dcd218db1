package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roicalc/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	failures int32
	calls    int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := atomic.AddInt32(&j.calls, 1)
	if n <= atomic.LoadInt32(&j.failures) {
		return errors.New("upstream down")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.NewNop(), time.UTC)

	require.NoError(t, s.AddJob(&countingJob{name: "report", schedule: "30 15 * * 1-5"}))
	assert.Error(t, s.AddJob(&countingJob{name: "report", schedule: "@daily"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "bad", schedule: "not a cron"}))

	assert.Equal(t, []string{"report"}, s.GetAllJobs())
}

func TestNextRunIsAfterClose(t *testing.T) {
	s := New(logger.NewNop(), time.UTC)
	require.NoError(t, s.AddJob(&countingJob{name: "report", schedule: "30 15 * * 1-5"}))

	// entries get their next time once the cron is running
	s.Start()
	defer s.Stop()

	next, err := s.NextRun("report")
	require.NoError(t, err)
	assert.Equal(t, 15, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())

	_, err = s.NextRun("missing")
	assert.Error(t, err)
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(logger.NewNop(), time.UTC)
	job := &countingJob{name: "report", schedule: "@daily", failures: 1}
	require.NoError(t, s.AddJob(job))

	first, err := s.RunJob(context.Background(), "report")
	require.NoError(t, err)
	assert.False(t, first.Success, "no retries by default")
	assert.Equal(t, "upstream down", first.Error)

	second, err := s.RunJob(context.Background(), "report")
	require.NoError(t, err)
	assert.True(t, second.Success)

	stats := s.GetJobStats()["report"]
	assert.Equal(t, "report", stats.JobName)
	assert.Equal(t, "@daily", stats.Schedule)
	assert.Equal(t, 2, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.Equal(t, 0.5, stats.SuccessRate)
	assert.Equal(t, "upstream down", stats.LastError)
	require.NotNil(t, stats.LastSuccess)
	require.NotNil(t, stats.LastFailure)
	assert.Equal(t, second.StartTime, *stats.LastRun)

	_, err = s.RunJob(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRunJobRetries(t *testing.T) {
	s := New(logger.NewNop(), time.UTC, WithRetries(2, time.Millisecond))
	job := &countingJob{name: "report", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "report")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.calls))
}

func TestStatsWithoutRuns(t *testing.T) {
	s := New(logger.NewNop(), time.UTC)
	require.NoError(t, s.AddJob(&countingJob{name: "report", schedule: "@daily"}))

	stats := s.GetJobStats()
	require.Contains(t, stats, "report")
	assert.Zero(t, stats["report"].TotalRuns)
	assert.Nil(t, stats["report"].LastRun)
	assert.Zero(t, stats["report"].AverageDuration())
}

func TestRunLogKeepsLatest(t *testing.T) {
	l := &runLog{}
	for i := 0; i < historyLimit+20; i++ {
		l.record(JobResult{
			JobName:   "x",
			StartTime: time.Unix(int64(i), 0),
			Duration:  time.Second,
			Success:   i%2 == 0,
		})
	}

	st := l.stats()
	assert.Equal(t, historyLimit, st.TotalRuns)
	assert.Equal(t, historyLimit/2, st.FailureCount)
	assert.Equal(t, time.Second, st.AverageDuration())
	assert.Equal(t, time.Unix(int64(historyLimit+19), 0), *st.LastRun)
	assert.Equal(t, time.Unix(int64(historyLimit+18), 0), *st.LastSuccess)
}
