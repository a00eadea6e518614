package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// CancelSubscriptionRequest represents a subscription cancellation request.
type CancelSubscriptionRequest struct {
	CustomerID        uuid.UUID `json:"customer_id" validate:"required"`
	CancelAtPeriodEnd bool      `json:"cancel_at_period_end"`
	Reason            string    `json:"reason,omitempty"`
}

// CancelSubscriptionUseCase handles subscription cancellation.
type CancelSubscriptionUseCase struct {
	facade *billing.Facade
}

// NewCancelSubscriptionUseCase creates a new CancelSubscriptionUseCase.
func NewCancelSubscriptionUseCase(facade *billing.Facade) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{facade: facade}
}

// Execute cancels a customer's active subscription.
func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, req CancelSubscriptionRequest) error {
	logger.Info("Canceling subscription", map[string]interface{}{
		"customer_id":          req.CustomerID,
		"cancel_at_period_end": req.CancelAtPeriodEnd,
		"reason":               req.Reason,
	})

	sub, err := uc.facade.GetActiveSubscription(ctx, req.CustomerID)
	if err != nil {
		logger.Error("Failed to find active subscription", err, map[string]interface{}{
			"customer_id": req.CustomerID,
		})
		return err
	}

	if _, err := uc.facade.CancelSubscription(ctx, sub.ID, req.CancelAtPeriodEnd, req.Reason); err != nil {
		logger.Error("Failed to cancel subscription", err, map[string]interface{}{
			"customer_id":     req.CustomerID,
			"subscription_id": sub.ID,
		})
		return fmt.Errorf("canceling subscription: %w", err)
	}

	logger.Info("Subscription canceled successfully", map[string]interface{}{
		"customer_id":          req.CustomerID,
		"subscription_id":      sub.ID,
		"cancel_at_period_end": req.CancelAtPeriodEnd,
	})
	return nil
}
