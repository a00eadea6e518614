package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// GetSubscriptionUseCase retrieves a customer's active subscription.
type GetSubscriptionUseCase struct {
	facade *billing.Facade
}

// NewGetSubscriptionUseCase creates a new GetSubscriptionUseCase.
func NewGetSubscriptionUseCase(facade *billing.Facade) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{facade: facade}
}

// Execute retrieves a customer's active subscription.
func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, customerID uuid.UUID) (*entities.Subscription, error) {
	logger.Info("Getting customer active subscription", map[string]interface{}{
		"customer_id": customerID,
	})

	sub, err := uc.facade.GetActiveSubscription(ctx, customerID)
	if err != nil {
		logger.Error("Failed to get customer active subscription", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Info("Retrieved customer active subscription", map[string]interface{}{
		"customer_id":     customerID,
		"subscription_id": sub.ID,
		"status":          sub.Status,
	})

	return sub, nil
}

// ListSubscriptionsUseCase lists all subscriptions for a customer.
type ListSubscriptionsUseCase struct {
	facade *billing.Facade
}

// NewListSubscriptionsUseCase creates a new ListSubscriptionsUseCase.
func NewListSubscriptionsUseCase(facade *billing.Facade) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{facade: facade}
}

// Execute lists a customer's subscriptions, most recent first.
func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Subscription, error) {
	logger.Info("Listing customer subscriptions", map[string]interface{}{
		"customer_id": customerID,
	})

	page, err := uc.facade.ListSubscriptionsByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		logger.Error("Failed to list customer subscriptions", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	return page.Data, nil
}
