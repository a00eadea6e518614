package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// EntitlementCache is the cache-aside port the façade's entitlement and
// limit reads optionally use in front of storage. A nil EntitlementCache
// disables caching entirely — every read falls straight through to
// storage and every write is a no-op. Implemented by
// internal/infrastructure/cache against Redis.
type EntitlementCache interface {
	GetHasEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string) (has bool, hit bool)
	SetHasEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string, has bool)
	InvalidateEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string)

	GetCustomerLimit(ctx context.Context, customerID uuid.UUID, limitKey string) (limit *entities.CustomerLimit, hit bool)
	SetCustomerLimit(ctx context.Context, customerID uuid.UUID, limit *entities.CustomerLimit)
	InvalidateCustomerLimit(ctx context.Context, customerID uuid.UUID, limitKey string)
}
