package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// SubscribeRequest represents a subscription request.
type SubscribeRequest struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	PlanID     uuid.UUID `json:"plan_id" validate:"required"`
	PriceID    uuid.UUID `json:"price_id" validate:"required"`
	Quantity   int64     `json:"quantity,omitempty"`
}

// SubscribeResponse represents a subscription response.
type SubscribeResponse struct {
	SubscriptionID     uuid.UUID                   `json:"subscription_id"`
	Status             entities.SubscriptionStatus `json:"status"`
	CurrentPeriodStart int64                       `json:"current_period_start"`
	CurrentPeriodEnd   int64                       `json:"current_period_end"`
	CancelAtPeriodEnd  bool                        `json:"cancel_at_period_end"`
}

// SubscribeUseCase handles subscription creation.
type SubscribeUseCase struct {
	facade *billing.Facade
}

// NewSubscribeUseCase creates a new SubscribeUseCase.
func NewSubscribeUseCase(facade *billing.Facade) *SubscribeUseCase {
	return &SubscribeUseCase{facade: facade}
}

// Execute creates a new subscription for a customer against a plan's price.
func (uc *SubscribeUseCase) Execute(ctx context.Context, req SubscribeRequest) (*SubscribeResponse, error) {
	logger.Info("Creating subscription", map[string]interface{}{
		"customer_id": req.CustomerID,
		"plan_id":     req.PlanID,
		"price_id":    req.PriceID,
	})

	plan, err := uc.facade.GetPlan(ctx, req.PlanID)
	if err != nil {
		logger.Error("Failed to get plan", err, map[string]interface{}{
			"plan_id": req.PlanID,
		})
		return nil, fmt.Errorf("getting plan: %w", err)
	}
	if !plan.Active {
		return nil, qzerrors.NewValidationError("plan_id", "plan is not active")
	}

	price, err := uc.facade.GetPrice(ctx, req.PriceID)
	if err != nil {
		logger.Error("Failed to get price", err, map[string]interface{}{
			"price_id": req.PriceID,
		})
		return nil, fmt.Errorf("getting price: %w", err)
	}

	if _, err := uc.facade.GetActiveSubscription(ctx, req.CustomerID); err == nil {
		logger.Error("Customer already has an active subscription", nil, map[string]interface{}{
			"customer_id": req.CustomerID,
		})
		return nil, qzerrors.NewConflictError("customer already has an active subscription")
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	now := time.Now()
	status := entities.SubscriptionStatusActive
	var trialEnd *time.Time
	if price.TrialDays != nil && *price.TrialDays > 0 {
		status = entities.SubscriptionStatusTrialing
		end := now.AddDate(0, 0, *price.TrialDays)
		trialEnd = &end
	}

	sub := &entities.Subscription{
		CustomerID:         req.CustomerID,
		PlanID:             req.PlanID,
		Status:             status,
		Interval:           price.BillingInterval,
		IntervalCount:      price.IntervalCount,
		Quantity:           quantity,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   nextPeriodEnd(now, price.BillingInterval, price.IntervalCount),
		TrialStart:         trialStart(status, now),
		TrialEnd:           trialEnd,
	}

	created, err := uc.facade.CreateSubscription(ctx, sub)
	if err != nil {
		logger.Error("Failed to create subscription", err, map[string]interface{}{
			"customer_id": req.CustomerID,
			"plan_id":     req.PlanID,
		})
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	logger.Info("Subscription created successfully", map[string]interface{}{
		"customer_id":     req.CustomerID,
		"subscription_id": created.ID,
		"status":          created.Status,
	})

	return &SubscribeResponse{
		SubscriptionID:     created.ID,
		Status:             created.Status,
		CurrentPeriodStart: created.CurrentPeriodStart.Unix(),
		CurrentPeriodEnd:   created.CurrentPeriodEnd.Unix(),
		CancelAtPeriodEnd:  created.CancelAtPeriodEnd,
	}, nil
}

func trialStart(status entities.SubscriptionStatus, now time.Time) *time.Time {
	if status != entities.SubscriptionStatusTrialing {
		return nil
	}
	return &now
}

func nextPeriodEnd(start time.Time, interval entities.BillingInterval, count int) time.Time {
	if count <= 0 {
		count = 1
	}
	switch interval {
	case entities.IntervalDay:
		return start.AddDate(0, 0, count)
	case entities.IntervalWeek:
		return start.AddDate(0, 0, 7*count)
	case entities.IntervalYear:
		return start.AddDate(count, 0, 0)
	default:
		return start.AddDate(0, count, 0)
	}
}
