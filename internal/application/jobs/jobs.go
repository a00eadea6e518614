// Package jobs implements the pure scheduling primitives the job queue
// worker uses to decide readiness, retry eligibility, terminal state, pick-
// up order, and backoff delay. No storage or clock side effects — callers
// supply "now" explicitly.
package jobs

import (
	"math"
	"sort"
	"time"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// IsReady reports whether a job is eligible to run right now.
func IsReady(job *entities.Job, now time.Time) bool {
	if job.Status != entities.JobStatusPending && job.Status != entities.JobStatusScheduled {
		return false
	}
	return !job.ScheduledAt.After(now)
}

// CanRetry reports whether a job has attempts remaining.
func CanRetry(job *entities.Job) bool {
	return job.Attempts < job.MaxAttempts
}

// IsTerminal reports whether a job will never run again.
func IsTerminal(job *entities.Job) bool {
	switch job.Status {
	case entities.JobStatusCompleted, entities.JobStatusFailed, entities.JobStatusCanceled:
		return true
	default:
		return false
	}
}

// SortByPriority orders jobs by priority rank (critical < high < normal <
// low, ascending JobPriority value) then by ScheduledAt ascending — the
// order workers pick jobs up in.
func SortByPriority(jobs []*entities.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].Priority != jobs[j].Priority {
			return jobs[i].Priority < jobs[j].Priority
		}
		return jobs[i].ScheduledAt.Before(jobs[j].ScheduledAt)
	})
}

// BackoffConfig parameterizes RetryDelay.
type BackoffConfig struct {
	BaseDelayMs  int64
	MaxDelayMs   int64
	JitterFactor float64
}

// DefaultBackoffConfig is base 1s, cap 1h, jitter 10%.
var DefaultBackoffConfig = BackoffConfig{
	BaseDelayMs:  1000,
	MaxDelayMs:   3600_000,
	JitterFactor: 0.1,
}

// RetryDelay computes the exponential-backoff-with-jitter delay before
// attempt (1-indexed). jitter must be a caller-supplied value in [-1, 1]
// (e.g. derived from a seeded RNG) so the result stays deterministic and
// testable; production callers pass rand.Float64()*2-1.
func RetryDelay(cfg BackoffConfig, attempt int, jitter float64) time.Duration {
	if cfg.BaseDelayMs <= 0 {
		cfg.BaseDelayMs = DefaultBackoffConfig.BaseDelayMs
	}
	if cfg.MaxDelayMs <= 0 {
		cfg.MaxDelayMs = DefaultBackoffConfig.MaxDelayMs
	}
	if cfg.JitterFactor <= 0 {
		cfg.JitterFactor = DefaultBackoffConfig.JitterFactor
	}
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(cfg.BaseDelayMs) * math.Pow(2, float64(attempt-1))
	if delay > float64(cfg.MaxDelayMs) {
		delay = float64(cfg.MaxDelayMs)
	}
	if jitter > 1 {
		jitter = 1
	}
	if jitter < -1 {
		jitter = -1
	}
	jittered := delay + jitter*cfg.JitterFactor*delay
	if jittered < 0 {
		jittered = 0
	}
	return time.Duration(math.Round(jittered)) * time.Millisecond
}
