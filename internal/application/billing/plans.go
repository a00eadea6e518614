package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/volume"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
)

// CreatePlan persists a new plan.
func (f *Facade) CreatePlan(ctx context.Context, plan *entities.Plan) (*entities.Plan, error) {
	if err := f.storage.Plans().Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return plan, nil
}

// GetPlan fetches a plan by id.
func (f *Facade) GetPlan(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	return f.storage.Plans().GetByID(ctx, id)
}

// ListActivePlans paginates active plans.
func (f *Facade) ListActivePlans(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Plan], error) {
	return f.storage.Plans().ListActive(ctx, limit, offset)
}

// GetPrice fetches a price by id.
func (f *Facade) GetPrice(ctx context.Context, id uuid.UUID) (*entities.Price, error) {
	return f.storage.Prices().GetByID(ctx, id)
}

// QuotePrice resolves a price's per-quantity cost, applying its volume
// tiers (if any) via the graduated-tiering algorithm.
func (f *Facade) QuotePrice(ctx context.Context, priceID uuid.UUID, quantity int64) (int64, error) {
	price, err := f.storage.Prices().GetByID(ctx, priceID)
	if err != nil {
		return 0, fmt.Errorf("fetching price: %w", err)
	}
	if len(price.VolumeTiers) == 0 {
		return price.UnitAmount * quantity, nil
	}
	return volume.GraduatedTieredPricing(price.VolumeTiers, quantity, price.UnitAmount)
}
