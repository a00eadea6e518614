package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// GrantEntitlement grants a customer an entitlement, extending expiresAt if
// one is already granted. Re-granting with an earlier expiresAt must never
// shorten an existing grant; EntitlementRepository.Grant enforces that
// monotonicity under a row lock, not this method.
func (f *Facade) GrantEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string, expiresAt *time.Time, source entities.EntitlementGrantSource) error {
	grant := &entities.EntitlementGrant{
		CustomerID:     customerID,
		EntitlementKey: entitlementKey,
		GrantedAt:      f.clock.Now(),
		ExpiresAt:      expiresAt,
		Source:         source,
	}
	if err := f.storage.Entitlements().Grant(ctx, grant); err != nil {
		return fmt.Errorf("granting entitlement: %w", err)
	}
	if f.cache != nil {
		f.cache.InvalidateEntitlement(ctx, customerID, entitlementKey)
	}
	return nil
}

// RevokeEntitlement revokes a previously granted entitlement.
func (f *Facade) RevokeEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string) error {
	if err := f.storage.Entitlements().Revoke(ctx, customerID, entitlementKey); err != nil {
		return err
	}
	if f.cache != nil {
		f.cache.InvalidateEntitlement(ctx, customerID, entitlementKey)
	}
	return nil
}

// HasEntitlement reports whether a customer currently holds an active
// grant for entitlementKey — the domain operation gates feature access on.
// Reads go through the façade's cache-aside layer when one is configured.
func (f *Facade) HasEntitlement(ctx context.Context, customerID uuid.UUID, entitlementKey string) (bool, error) {
	if f.cache != nil {
		if has, hit := f.cache.GetHasEntitlement(ctx, customerID, entitlementKey); hit {
			return has, nil
		}
	}
	has, err := f.storage.Entitlements().HasActiveGrant(ctx, customerID, entitlementKey)
	if err != nil {
		return false, err
	}
	if f.cache != nil {
		f.cache.SetHasEntitlement(ctx, customerID, entitlementKey, has)
	}
	return has, nil
}
