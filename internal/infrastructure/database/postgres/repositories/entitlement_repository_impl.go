package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// EntitlementRepositoryImpl implements EntitlementRepository using GORM.
type EntitlementRepositoryImpl struct {
	db *gorm.DB
}

// NewEntitlementRepository creates a new EntitlementRepository instance.
func NewEntitlementRepository(db *gorm.DB) repositories.EntitlementRepository {
	return &EntitlementRepositoryImpl{db: db}
}

func (r *EntitlementRepositoryImpl) CreateDefinition(ctx context.Context, def *entities.EntitlementDefinition) error {
	if err := conn(ctx, r.db).Create(def).Error; err != nil {
		logger.Error("Failed to create entitlement definition", err)
		return fmt.Errorf("failed to create entitlement definition: %w", err)
	}
	return nil
}

func (r *EntitlementRepositoryImpl) GetDefinitionByKey(ctx context.Context, key string) (*entities.EntitlementDefinition, error) {
	var def entities.EntitlementDefinition
	if err := conn(ctx, r.db).Where("key = ?", key).First(&def).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("entitlement_definition")
		}
		logger.Error("Failed to get entitlement definition by key", err)
		return nil, fmt.Errorf("failed to get entitlement definition by key: %w", err)
	}
	return &def, nil
}

func (r *EntitlementRepositoryImpl) ListDefinitions(ctx context.Context) ([]*entities.EntitlementDefinition, error) {
	var defs []*entities.EntitlementDefinition
	if err := conn(ctx, r.db).Order("key ASC").Find(&defs).Error; err != nil {
		logger.Error("Failed to list entitlement definitions", err)
		return nil, fmt.Errorf("failed to list entitlement definitions: %w", err)
	}
	return defs, nil
}

// Grant upserts (customerId, entitlementKey) under a row lock: a first
// grant inserts, a re-grant widens ExpiresAt to the later of the existing
// and incoming values, with a nil (no expiry) on either side always
// winning. This is where the monotonicity invariant actually lives.
func (r *EntitlementRepositoryImpl) Grant(ctx context.Context, grant *entities.EntitlementGrant) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var existing entities.EntitlementGrant
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer_id = ? AND entitlement_key = ?", grant.CustomerID, grant.EntitlementKey).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(grant).Error
		}
		if err != nil {
			return err
		}

		existing.ExpiresAt = maxExpiry(existing.ExpiresAt, grant.ExpiresAt)
		existing.GrantedAt = grant.GrantedAt
		existing.Source = grant.Source
		existing.SourceID = grant.SourceID
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*grant = existing
		return nil
	})
	if err != nil {
		logger.Error("Failed to grant entitlement", err)
		return fmt.Errorf("failed to grant entitlement: %w", err)
	}
	return nil
}

// maxExpiry resolves re-granting's monotonicity rule: a nil (no expiry) on
// either side always wins, otherwise the later of the two timestamps wins.
func maxExpiry(existing, incoming *time.Time) *time.Time {
	if existing == nil || incoming == nil {
		return nil
	}
	if incoming.After(*existing) {
		return incoming
	}
	return existing
}

func (r *EntitlementRepositoryImpl) Revoke(ctx context.Context, customerID uuid.UUID, entitlementKey string) error {
	if err := conn(ctx, r.db).Where("customer_id = ? AND entitlement_key = ?", customerID, entitlementKey).
		Delete(&entities.EntitlementGrant{}).Error; err != nil {
		logger.Error("Failed to revoke entitlement", err)
		return fmt.Errorf("failed to revoke entitlement: %w", err)
	}
	return nil
}

func (r *EntitlementRepositoryImpl) ListActiveForCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.EntitlementGrant, error) {
	var grants []*entities.EntitlementGrant
	if err := conn(ctx, r.db).
		Where("customer_id = ? AND (expires_at IS NULL OR expires_at > ?)", customerID, time.Now()).
		Find(&grants).Error; err != nil {
		logger.Error("Failed to list active entitlement grants", err)
		return nil, fmt.Errorf("failed to list active entitlement grants: %w", err)
	}
	return grants, nil
}

func (r *EntitlementRepositoryImpl) HasActiveGrant(ctx context.Context, customerID uuid.UUID, entitlementKey string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&entities.EntitlementGrant{}).
		Where("customer_id = ? AND entitlement_key = ? AND (expires_at IS NULL OR expires_at > ?)", customerID, entitlementKey, time.Now()).
		Count(&count).Error; err != nil {
		logger.Error("Failed to check active entitlement grant", err)
		return false, fmt.Errorf("failed to check active entitlement grant: %w", err)
	}
	return count > 0, nil
}

// LimitRepositoryImpl implements LimitRepository using GORM.
type LimitRepositoryImpl struct {
	db *gorm.DB
}

// NewLimitRepository creates a new LimitRepository instance.
func NewLimitRepository(db *gorm.DB) repositories.LimitRepository {
	return &LimitRepositoryImpl{db: db}
}

func (r *LimitRepositoryImpl) CreateDefinition(ctx context.Context, def *entities.LimitDefinition) error {
	if err := conn(ctx, r.db).Create(def).Error; err != nil {
		logger.Error("Failed to create limit definition", err)
		return fmt.Errorf("failed to create limit definition: %w", err)
	}
	return nil
}

func (r *LimitRepositoryImpl) GetDefinitionByKey(ctx context.Context, key string) (*entities.LimitDefinition, error) {
	var def entities.LimitDefinition
	if err := conn(ctx, r.db).Where("key = ?", key).First(&def).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("limit_definition")
		}
		logger.Error("Failed to get limit definition by key", err)
		return nil, fmt.Errorf("failed to get limit definition by key: %w", err)
	}
	return &def, nil
}

func (r *LimitRepositoryImpl) ListDefinitions(ctx context.Context) ([]*entities.LimitDefinition, error) {
	var defs []*entities.LimitDefinition
	if err := conn(ctx, r.db).Order("key ASC").Find(&defs).Error; err != nil {
		logger.Error("Failed to list limit definitions", err)
		return nil, fmt.Errorf("failed to list limit definitions: %w", err)
	}
	return defs, nil
}

func (r *LimitRepositoryImpl) UpsertCustomerLimit(ctx context.Context, limit *entities.CustomerLimit) error {
	if err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "limit_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_value", "current_value", "reset_at", "source", "updated_at"}),
	}).Create(limit).Error; err != nil {
		logger.Error("Failed to upsert customer limit", err)
		return fmt.Errorf("failed to upsert customer limit: %w", err)
	}
	return nil
}

func (r *LimitRepositoryImpl) GetCustomerLimit(ctx context.Context, customerID uuid.UUID, limitKey string) (*entities.CustomerLimit, error) {
	var limit entities.CustomerLimit
	if err := conn(ctx, r.db).Where("customer_id = ? AND limit_key = ?", customerID, limitKey).First(&limit).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("customer_limit")
		}
		logger.Error("Failed to get customer limit", err)
		return nil, fmt.Errorf("failed to get customer limit: %w", err)
	}
	return &limit, nil
}

func (r *LimitRepositoryImpl) LockCustomerLimitForUpdate(ctx context.Context, customerID uuid.UUID, limitKey string) (*entities.CustomerLimit, error) {
	var limit entities.CustomerLimit
	if err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND limit_key = ?", customerID, limitKey).First(&limit).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("customer_limit")
		}
		logger.Error("Failed to lock customer limit for update", err)
		return nil, fmt.Errorf("failed to lock customer limit for update: %w", err)
	}
	return &limit, nil
}

func (r *LimitRepositoryImpl) IncrementUsage(ctx context.Context, customerID uuid.UUID, limitKey string, delta int64) error {
	if err := conn(ctx, r.db).Model(&entities.CustomerLimit{}).
		Where("customer_id = ? AND limit_key = ?", customerID, limitKey).
		Update("current_value", gorm.Expr("current_value + ?", delta)).Error; err != nil {
		logger.Error("Failed to increment customer limit usage", err)
		return fmt.Errorf("failed to increment customer limit usage: %w", err)
	}
	return nil
}

func (r *LimitRepositoryImpl) ResetUsage(ctx context.Context, customerID uuid.UUID, limitKey string, resetAt time.Time) error {
	if err := conn(ctx, r.db).Model(&entities.CustomerLimit{}).
		Where("customer_id = ? AND limit_key = ?", customerID, limitKey).
		Updates(map[string]interface{}{"current_value": 0, "reset_at": resetAt}).Error; err != nil {
		logger.Error("Failed to reset customer limit usage", err)
		return fmt.Errorf("failed to reset customer limit usage: %w", err)
	}
	return nil
}

func (r *LimitRepositoryImpl) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.CustomerLimit, error) {
	var limits []*entities.CustomerLimit
	if err := conn(ctx, r.db).Where("customer_id = ?", customerID).Find(&limits).Error; err != nil {
		logger.Error("Failed to list customer limits", err)
		return nil, fmt.Errorf("failed to list customer limits: %w", err)
	}
	return limits, nil
}

// UsageRecordRepositoryImpl implements UsageRecordRepository using GORM.
type UsageRecordRepositoryImpl struct {
	db *gorm.DB
}

// NewUsageRecordRepository creates a new UsageRecordRepository instance.
func NewUsageRecordRepository(db *gorm.DB) repositories.UsageRecordRepository {
	return &UsageRecordRepositoryImpl{db: db}
}

func (r *UsageRecordRepositoryImpl) Create(ctx context.Context, record *entities.UsageRecord) error {
	if err := conn(ctx, r.db).Create(record).Error; err != nil {
		logger.Error("Failed to create usage record", err)
		return fmt.Errorf("failed to create usage record: %w", err)
	}
	return nil
}

func (r *UsageRecordRepositoryImpl) GetByIdempotencyKey(ctx context.Context, key string) (*entities.UsageRecord, error) {
	var record entities.UsageRecord
	if err := conn(ctx, r.db).Where("idempotency_key = ?", key).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("usage_record")
		}
		logger.Error("Failed to get usage record by idempotency key", err)
		return nil, fmt.Errorf("failed to get usage record by idempotency key: %w", err)
	}
	return &record, nil
}

func (r *UsageRecordRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) (*repositories.Page[*entities.UsageRecord], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var records []*entities.UsageRecord
	var total int64

	if err := conn(ctx, r.db).Model(&entities.UsageRecord{}).Where("subscription_id = ?", subscriptionID).Count(&total).Error; err != nil {
		logger.Error("Failed to count subscription usage records", err)
		return nil, fmt.Errorf("failed to count subscription usage records: %w", err)
	}
	if err := conn(ctx, r.db).Where("subscription_id = ?", subscriptionID).Order("recorded_at DESC").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		logger.Error("Failed to list subscription usage records", err)
		return nil, fmt.Errorf("failed to list subscription usage records: %w", err)
	}
	return repositories.NewPage(records, total, limit, offset), nil
}
