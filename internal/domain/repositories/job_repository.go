package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// JobRepository defines storage operations for Job records.
type JobRepository interface {
	Create(ctx context.Context, job *entities.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Job, error)
	Update(ctx context.Context, job *entities.Job) error

	// ListReady returns pending/scheduled jobs with ScheduledAt <= asOf.
	// Rows come back in storage order, not by priority; jobs.SortByPriority
	// orders them (lower JobPriority value first).
	ListReady(ctx context.Context, asOf time.Time, limit int) ([]*entities.Job, error)

	ListByType(ctx context.Context, jobType entities.JobType, limit, offset int) (*Page[*entities.Job], error)
	ListByStatus(ctx context.Context, status entities.JobStatus, limit, offset int) (*Page[*entities.Job], error)
}
