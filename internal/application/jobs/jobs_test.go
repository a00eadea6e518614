package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type JobsTestSuite struct {
	suite.Suite
	now time.Time
}

func (s *JobsTestSuite) SetupTest() {
	s.now = time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
}

func (s *JobsTestSuite) TestIsReady_PendingDue() {
	job := &entities.Job{Status: entities.JobStatusPending, ScheduledAt: s.now.Add(-time.Minute)}
	s.True(IsReady(job, s.now))
}

func (s *JobsTestSuite) TestIsReady_ScheduledFuture() {
	job := &entities.Job{Status: entities.JobStatusScheduled, ScheduledAt: s.now.Add(time.Minute)}
	s.False(IsReady(job, s.now))
}

func (s *JobsTestSuite) TestIsReady_WrongStatus() {
	job := &entities.Job{Status: entities.JobStatusRunning, ScheduledAt: s.now.Add(-time.Minute)}
	s.False(IsReady(job, s.now))
}

func (s *JobsTestSuite) TestCanRetry() {
	s.True(CanRetry(&entities.Job{Attempts: 1, MaxAttempts: 3}))
	s.False(CanRetry(&entities.Job{Attempts: 3, MaxAttempts: 3}))
}

func (s *JobsTestSuite) TestIsTerminal() {
	s.True(IsTerminal(&entities.Job{Status: entities.JobStatusCompleted}))
	s.True(IsTerminal(&entities.Job{Status: entities.JobStatusFailed}))
	s.True(IsTerminal(&entities.Job{Status: entities.JobStatusCanceled}))
	s.False(IsTerminal(&entities.Job{Status: entities.JobStatusRunning}))
	s.False(IsTerminal(&entities.Job{Status: entities.JobStatusPending}))
}

func (s *JobsTestSuite) TestSortByPriority() {
	t0 := s.now
	t1 := s.now.Add(time.Minute)
	jobs := []*entities.Job{
		{Type: "low-late", Priority: entities.JobPriorityLow, ScheduledAt: t1},
		{Type: "critical", Priority: entities.JobPriorityCritical, ScheduledAt: t1},
		{Type: "normal-early", Priority: entities.JobPriorityNormal, ScheduledAt: t0},
		{Type: "normal-late", Priority: entities.JobPriorityNormal, ScheduledAt: t1},
		{Type: "high", Priority: entities.JobPriorityHigh, ScheduledAt: t0},
	}
	SortByPriority(jobs)
	expected := []entities.JobType{"critical", "high", "normal-early", "normal-late", "low-late"}
	var got []entities.JobType
	for _, j := range jobs {
		got = append(got, j.Type)
	}
	s.Equal(expected, got)
}

func (s *JobsTestSuite) TestRetryDelay_ExponentialGrowth() {
	cfg := BackoffConfig{BaseDelayMs: 1000, MaxDelayMs: 3600_000, JitterFactor: 0}
	s.Equal(1000*time.Millisecond, RetryDelay(cfg, 1, 0))
	s.Equal(2000*time.Millisecond, RetryDelay(cfg, 2, 0))
	s.Equal(4000*time.Millisecond, RetryDelay(cfg, 3, 0))
}

func (s *JobsTestSuite) TestRetryDelay_CapsAtMax() {
	cfg := BackoffConfig{BaseDelayMs: 1000, MaxDelayMs: 5000, JitterFactor: 0}
	s.Equal(5000*time.Millisecond, RetryDelay(cfg, 10, 0))
}

func (s *JobsTestSuite) TestRetryDelay_Jitter() {
	cfg := BackoffConfig{BaseDelayMs: 1000, MaxDelayMs: 3600_000, JitterFactor: 0.1}
	// attempt 1: base delay 1000ms, +10% jitter = 1100ms, -10% jitter = 900ms
	s.Equal(1100*time.Millisecond, RetryDelay(cfg, 1, 1))
	s.Equal(900*time.Millisecond, RetryDelay(cfg, 1, -1))
}

func (s *JobsTestSuite) TestRetryDelay_DefaultsAppliedWhenZero() {
	delay := RetryDelay(BackoffConfig{}, 1, 0)
	s.Equal(1000*time.Millisecond, delay)
}

func TestJobsTestSuite(t *testing.T) {
	suite.Run(t, new(JobsTestSuite))
}
