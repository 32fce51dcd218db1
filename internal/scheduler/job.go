package scheduler

import (
	"context"
	"time"
)

// historyLimit bounds the run log kept per job
const historyLimit = 100

// Job is one unit of scheduled work
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string
	Run(ctx context.Context) error

	// Schedule is a 5-field cron expression such as "30 15 * * 1-5"
	// (weekdays after the close) or a descriptor like "@daily"
	Schedule() string
}

// JobResult is the outcome of one run, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobStats summarises the run log of one job
type JobStats struct {
	JobName       string        `json:"job_name"`
	Schedule      string        `json:"schedule"`
	TotalRuns     int           `json:"total_runs"`
	SuccessCount  int           `json:"success_count"`
	FailureCount  int           `json:"failure_count"`
	SuccessRate   float64       `json:"success_rate"`
	TotalDuration time.Duration `json:"total_duration"`
	LastRun       *time.Time    `json:"last_run,omitempty"`
	LastSuccess   *time.Time    `json:"last_success,omitempty"`
	LastFailure   *time.Time    `json:"last_failure,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
}

// AverageDuration is the mean wall time of a run
func (s JobStats) AverageDuration() time.Duration {
	if s.TotalRuns == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalRuns)
}

// runLog keeps the latest historyLimit results of a job, oldest first
type runLog struct {
	results []JobResult
}

func (l *runLog) record(result JobResult) {
	l.results = append(l.results, result)
	if len(l.results) > historyLimit {
		l.results = l.results[len(l.results)-historyLimit:]
	}
}

// stats folds the log into a JobStats; job name and schedule are left to the caller
func (l *runLog) stats() JobStats {
	var st JobStats
	for _, r := range l.results {
		started := r.StartTime
		st.TotalRuns++
		st.TotalDuration += r.Duration
		st.LastRun = &started
		if r.Success {
			st.SuccessCount++
			st.LastSuccess = &started
		} else {
			st.FailureCount++
			st.LastFailure = &started
			st.LastError = r.Error
		}
	}
	if st.TotalRuns > 0 {
		st.SuccessRate = float64(st.SuccessCount) / float64(st.TotalRuns)
	}
	return st
}
