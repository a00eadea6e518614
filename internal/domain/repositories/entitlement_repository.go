package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// EntitlementRepository defines storage operations for EntitlementDefinition
// and EntitlementGrant records.
type EntitlementRepository interface {
	CreateDefinition(ctx context.Context, def *entities.EntitlementDefinition) error
	GetDefinitionByKey(ctx context.Context, key string) (*entities.EntitlementDefinition, error)
	ListDefinitions(ctx context.Context) ([]*entities.EntitlementDefinition, error)

	Grant(ctx context.Context, grant *entities.EntitlementGrant) error
	Revoke(ctx context.Context, customerID uuid.UUID, entitlementKey string) error
	ListActiveForCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.EntitlementGrant, error)
	HasActiveGrant(ctx context.Context, customerID uuid.UUID, entitlementKey string) (bool, error)
}

// LimitRepository defines storage operations for LimitDefinition and
// CustomerLimit records.
type LimitRepository interface {
	CreateDefinition(ctx context.Context, def *entities.LimitDefinition) error
	GetDefinitionByKey(ctx context.Context, key string) (*entities.LimitDefinition, error)
	ListDefinitions(ctx context.Context) ([]*entities.LimitDefinition, error)

	UpsertCustomerLimit(ctx context.Context, limit *entities.CustomerLimit) error
	GetCustomerLimit(ctx context.Context, customerID uuid.UUID, limitKey string) (*entities.CustomerLimit, error)

	// LockCustomerLimitForUpdate fetches a customer limit row with a lock
	// (SELECT ... FOR UPDATE), used by the usage-recording path to avoid a
	// lost-update race between concurrent increments.
	LockCustomerLimitForUpdate(ctx context.Context, customerID uuid.UUID, limitKey string) (*entities.CustomerLimit, error)

	IncrementUsage(ctx context.Context, customerID uuid.UUID, limitKey string, delta int64) error
	ResetUsage(ctx context.Context, customerID uuid.UUID, limitKey string, resetAt time.Time) error
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.CustomerLimit, error)
}

// UsageRecordRepository defines storage operations for UsageRecord records.
type UsageRecordRepository interface {
	Create(ctx context.Context, record *entities.UsageRecord) error
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.UsageRecord, error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) (*Page[*entities.UsageRecord], error)
}
