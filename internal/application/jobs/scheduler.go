package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
)

// Scheduler drives a robfig/cron instance that enqueues a Job row for each
// configured NamedSchedule tick. It owns no worker loop — dequeuing and
// execution is the job-queue worker's responsibility; the scheduler's only
// job is turning cron ticks into pending Job rows.
type Scheduler struct {
	cron    *cron.Cron
	storage repositories.Storage
}

// NewScheduler builds a Scheduler. entries pairs a job type with the named
// schedule it should be enqueued on.
func NewScheduler(storage repositories.Storage, entries []DefaultJobSchedule) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, storage: storage}
	for _, entry := range entries {
		expr := CronExpression(entry.Schedule)
		if expr == "" {
			return nil, fmt.Errorf("jobs: unrecognized named schedule %q", entry.Schedule)
		}
		jobType := entities.JobType(entry.JobType)
		if _, err := c.AddFunc(expr, s.enqueueFunc(jobType)); err != nil {
			return nil, fmt.Errorf("jobs: scheduling %s on %s: %w", entry.JobType, entry.Schedule, err)
		}
	}
	return s, nil
}

func (s *Scheduler) enqueueFunc(jobType entities.JobType) func() {
	return func() {
		ctx := context.Background()
		job := &entities.Job{
			Type:        jobType,
			Priority:    entities.JobPriorityNormal,
			Status:      entities.JobStatusPending,
			MaxAttempts: 3,
		}
		_ = s.storage.Jobs().Create(ctx, job)
	}
}

// Start begins the cron scheduler's background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for any running entry to complete.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
