package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// IdempotencyKeyRepositoryImpl implements IdempotencyKeyRepository using
// GORM.
type IdempotencyKeyRepositoryImpl struct {
	db *gorm.DB
}

// NewIdempotencyKeyRepository creates a new IdempotencyKeyRepository
// instance.
func NewIdempotencyKeyRepository(db *gorm.DB) repositories.IdempotencyKeyRepository {
	return &IdempotencyKeyRepositoryImpl{db: db}
}

func (r *IdempotencyKeyRepositoryImpl) Get(ctx context.Context, key string) (*entities.IdempotencyKey, error) {
	var record entities.IdempotencyKey
	if err := conn(ctx, r.db).Where("key = ?", key).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("idempotency_key")
		}
		logger.Error("Failed to get idempotency key", err)
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}
	return &record, nil
}

func (r *IdempotencyKeyRepositoryImpl) Save(ctx context.Context, record *entities.IdempotencyKey) error {
	if err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(record).Error; err != nil {
		logger.Error("Failed to save idempotency key", err)
		return fmt.Errorf("failed to save idempotency key: %w", err)
	}
	return nil
}

func (r *IdempotencyKeyRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	result := conn(ctx, r.db).Where("expires_at <= ?", time.Now()).Delete(&entities.IdempotencyKey{})
	if result.Error != nil {
		logger.Error("Failed to delete expired idempotency keys", result.Error)
		return 0, fmt.Errorf("failed to delete expired idempotency keys: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// AuditLogRepositoryImpl implements AuditLogRepository using GORM.
type AuditLogRepositoryImpl struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository instance.
func NewAuditLogRepository(db *gorm.DB) repositories.AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, entry *entities.AuditLog) error {
	if err := conn(ctx, r.db).Create(entry).Error; err != nil {
		logger.Error("Failed to create audit log entry", err)
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

func (r *AuditLogRepositoryImpl) ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) (*repositories.Page[*entities.AuditLog], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var entries []*entities.AuditLog
	var total int64

	if err := conn(ctx, r.db).Model(&entities.AuditLog{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).Count(&total).Error; err != nil {
		logger.Error("Failed to count audit log entries", err)
		return nil, fmt.Errorf("failed to count audit log entries: %w", err)
	}
	if err := conn(ctx, r.db).Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("at DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		logger.Error("Failed to list audit log entries", err)
		return nil, fmt.Errorf("failed to list audit log entries: %w", err)
	}
	return repositories.NewPage(entries, total, limit, offset), nil
}
