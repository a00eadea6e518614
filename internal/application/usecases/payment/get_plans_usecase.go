package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// GetPlansUseCase retrieves the active subscription plans.
type GetPlansUseCase struct {
	facade *billing.Facade
}

// NewGetPlansUseCase creates a new GetPlansUseCase.
func NewGetPlansUseCase(facade *billing.Facade) *GetPlansUseCase {
	return &GetPlansUseCase{facade: facade}
}

// Execute retrieves active subscription plans.
func (uc *GetPlansUseCase) Execute(ctx context.Context, limit, offset int) ([]*entities.Plan, error) {
	logger.Info("Getting active subscription plans", nil)

	page, err := uc.facade.ListActivePlans(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list active plans", err, nil)
		return nil, err
	}

	logger.Info("Retrieved subscription plans", map[string]interface{}{
		"count": len(page.Data),
	})

	return page.Data, nil
}

// GetPlanByIDUseCase retrieves a subscription plan by ID.
type GetPlanByIDUseCase struct {
	facade *billing.Facade
}

// NewGetPlanByIDUseCase creates a new GetPlanByIDUseCase.
func NewGetPlanByIDUseCase(facade *billing.Facade) *GetPlanByIDUseCase {
	return &GetPlanByIDUseCase{facade: facade}
}

// Execute retrieves a subscription plan by ID.
func (uc *GetPlanByIDUseCase) Execute(ctx context.Context, planID uuid.UUID) (*entities.Plan, error) {
	logger.Info("Getting subscription plan by ID", map[string]interface{}{
		"plan_id": planID,
	})

	plan, err := uc.facade.GetPlan(ctx, planID)
	if err != nil {
		logger.Error("Subscription plan not found", err, map[string]interface{}{
			"plan_id": planID,
		})
		return nil, err
	}

	logger.Info("Retrieved subscription plan", map[string]interface{}{
		"plan_id": plan.ID,
		"name":    plan.Name,
	})

	return plan, nil
}
