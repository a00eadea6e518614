package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// JobRepositoryImpl implements JobRepository using GORM.
type JobRepositoryImpl struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository instance.
func NewJobRepository(db *gorm.DB) repositories.JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *entities.Job) error {
	if err := conn(ctx, r.db).Create(job).Error; err != nil {
		logger.Error("Failed to create job", err)
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *JobRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	var job entities.Job
	if err := conn(ctx, r.db).Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("job")
		}
		logger.Error("Failed to get job by ID", err)
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(ctx context.Context, job *entities.Job) error {
	if err := conn(ctx, r.db).Save(job).Error; err != nil {
		logger.Error("Failed to update job", err)
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

func (r *JobRepositoryImpl) ListReady(ctx context.Context, asOf time.Time, limit int) ([]*entities.Job, error) {
	var jobs []*entities.Job
	query := conn(ctx, r.db).Where(
		"status IN ? AND scheduled_at <= ?",
		[]entities.JobStatus{entities.JobStatusPending, entities.JobStatusScheduled},
		asOf,
	)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		logger.Error("Failed to list ready jobs", err)
		return nil, fmt.Errorf("failed to list ready jobs: %w", err)
	}
	return jobs, nil
}

func (r *JobRepositoryImpl) ListByType(ctx context.Context, jobType entities.JobType, limit, offset int) (*repositories.Page[*entities.Job], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var jobs []*entities.Job
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Job{}).Where("type = ?", jobType).Count(&total).Error; err != nil {
		logger.Error("Failed to count jobs by type", err)
		return nil, fmt.Errorf("failed to count jobs by type: %w", err)
	}
	if err := conn(ctx, r.db).Where("type = ?", jobType).Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		logger.Error("Failed to list jobs by type", err)
		return nil, fmt.Errorf("failed to list jobs by type: %w", err)
	}
	return repositories.NewPage(jobs, total, limit, offset), nil
}

func (r *JobRepositoryImpl) ListByStatus(ctx context.Context, status entities.JobStatus, limit, offset int) (*repositories.Page[*entities.Job], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var jobs []*entities.Job
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Job{}).Where("status = ?", status).Count(&total).Error; err != nil {
		logger.Error("Failed to count jobs by status", err)
		return nil, fmt.Errorf("failed to count jobs by status: %w", err)
	}
	if err := conn(ctx, r.db).Where("status = ?", status).Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		logger.Error("Failed to list jobs by status", err)
		return nil, fmt.Errorf("failed to list jobs by status: %w", err)
	}
	return repositories.NewPage(jobs, total, limit, offset), nil
}
