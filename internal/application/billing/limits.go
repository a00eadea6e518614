package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// GetCustomerLimit fetches a customer's current usage against a named
// limit. Reads go through the façade's cache-aside layer when one is
// configured.
func (f *Facade) GetCustomerLimit(ctx context.Context, customerID uuid.UUID, limitKey string) (*entities.CustomerLimit, error) {
	if f.cache != nil {
		if limit, hit := f.cache.GetCustomerLimit(ctx, customerID, limitKey); hit {
			return limit, nil
		}
	}
	limit, err := f.storage.Limits().GetCustomerLimit(ctx, customerID, limitKey)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		f.cache.SetCustomerLimit(ctx, customerID, limit)
	}
	return limit, nil
}

// RecordUsage increments a customer's usage against a limit by delta,
// locking the row first so concurrent recordings never lose an update, and
// rejects the increment with Forbidden once it would exceed MaxValue.
func (f *Facade) RecordUsage(ctx context.Context, customerID uuid.UUID, limitKey string, delta int64) error {
	err := f.storage.Transaction(ctx, func(ctx context.Context) error {
		limit, err := f.storage.Limits().LockCustomerLimitForUpdate(ctx, customerID, limitKey)
		if err != nil {
			return fmt.Errorf("locking customer limit: %w", err)
		}
		if limit.CurrentValue+delta > limit.MaxValue {
			return qzerrors.NewForbiddenError(fmt.Sprintf("usage would exceed limit %q", limitKey))
		}
		return f.storage.Limits().IncrementUsage(ctx, customerID, limitKey, delta)
	})
	if err != nil {
		return err
	}
	if f.cache != nil {
		f.cache.InvalidateCustomerLimit(ctx, customerID, limitKey)
	}
	return nil
}
