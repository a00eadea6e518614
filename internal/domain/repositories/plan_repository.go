package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// PlanRepository defines storage operations for Plan records.
type PlanRepository interface {
	Create(ctx context.Context, plan *entities.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error)
	Update(ctx context.Context, plan *entities.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, limit, offset int) (*Page[*entities.Plan], error)
	ListActive(ctx context.Context, limit, offset int) (*Page[*entities.Plan], error)
}

// PriceRepository defines storage operations for Price records.
type PriceRepository interface {
	Create(ctx context.Context, price *entities.Price) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Price, error)
	GetByProviderPriceID(ctx context.Context, provider, providerPriceID string) (*entities.Price, error)
	Update(ctx context.Context, price *entities.Price) error

	ListByPlan(ctx context.Context, planID uuid.UUID) ([]*entities.Price, error)
	ListActiveByPlan(ctx context.Context, planID uuid.UUID) ([]*entities.Price, error)
}
