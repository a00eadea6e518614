package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	qzerrors "github.com/22smeargle/qzpay/pkg/errors"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
)

// CreateSubscription persists a new subscription.
func (f *Facade) CreateSubscription(ctx context.Context, sub *entities.Subscription) (*entities.Subscription, error) {
	if err := f.storage.Subscriptions().Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}
	return sub, nil
}

// GetSubscription fetches a subscription by id.
func (f *Facade) GetSubscription(ctx context.Context, id uuid.UUID) (*entities.Subscription, error) {
	return f.storage.Subscriptions().GetByID(ctx, id)
}

// ListSubscriptionsByCustomer paginates a customer's subscriptions.
func (f *Facade) ListSubscriptionsByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Subscription], error) {
	return f.storage.Subscriptions().ListByCustomer(ctx, customerID, limit, offset)
}

// GetActiveSubscription returns the one subscription for this customer with
// status=active, or NotFound if none qualifies — the domain operation the
// spec calls out by name.
func (f *Facade) GetActiveSubscription(ctx context.Context, customerID uuid.UUID) (*entities.Subscription, error) {
	page, err := f.storage.Subscriptions().ListByCustomer(ctx, customerID, 100, 0)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	for _, sub := range page.Data {
		if sub.Status == entities.SubscriptionStatusActive {
			return sub, nil
		}
	}
	return nil, qzerrors.NewNotFoundError("active subscription")
}

// CancelSubscription marks a subscription for cancellation, either
// immediately or at period end.
func (f *Facade) CancelSubscription(ctx context.Context, id uuid.UUID, atPeriodEnd bool, reason string) (*entities.Subscription, error) {
	sub, err := f.storage.Subscriptions().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching subscription: %w", err)
	}
	now := f.clock.Now()
	if atPeriodEnd {
		sub.CancelAtPeriodEnd = true
		sub.CancelAt = &sub.CurrentPeriodEnd
	} else {
		sub.Status = entities.SubscriptionStatusCanceled
		sub.CanceledAt = &now
	}
	if reason != "" {
		sub.CancelReason = &reason
	}
	sub.Version++
	if err := f.storage.Subscriptions().Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("updating subscription: %w", err)
	}
	return sub, nil
}
