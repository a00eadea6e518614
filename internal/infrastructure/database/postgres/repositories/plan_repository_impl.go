package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// PlanRepositoryImpl implements PlanRepository using GORM.
type PlanRepositoryImpl struct {
	db *gorm.DB
}

// NewPlanRepository creates a new PlanRepository instance.
func NewPlanRepository(db *gorm.DB) repositories.PlanRepository {
	return &PlanRepositoryImpl{db: db}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *entities.Plan) error {
	if err := conn(ctx, r.db).Create(plan).Error; err != nil {
		logger.Error("Failed to create plan", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Plan, error) {
	var plan entities.Plan
	if err := conn(ctx, r.db).Where("id = ?", id).First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("plan")
		}
		logger.Error("Failed to get plan by ID", err)
		return nil, fmt.Errorf("failed to get plan by ID: %w", err)
	}
	return &plan, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *entities.Plan) error {
	if err := conn(ctx, r.db).Save(plan).Error; err != nil {
		logger.Error("Failed to update plan", err)
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

func (r *PlanRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := conn(ctx, r.db).Delete(&entities.Plan{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete plan", err)
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

func (r *PlanRepositoryImpl) List(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Plan], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var plans []*entities.Plan
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Plan{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count plans", err)
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}
	if err := conn(ctx, r.db).Order("created_at DESC").Limit(limit).Offset(offset).Find(&plans).Error; err != nil {
		logger.Error("Failed to list plans", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return repositories.NewPage(plans, total, limit, offset), nil
}

func (r *PlanRepositoryImpl) ListActive(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Plan], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var plans []*entities.Plan
	var total int64

	query := conn(ctx, r.db).Model(&entities.Plan{}).Where("active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count active plans", err)
		return nil, fmt.Errorf("failed to count active plans: %w", err)
	}
	if err := conn(ctx, r.db).Where("active = ?", true).Order("created_at DESC").Limit(limit).Offset(offset).Find(&plans).Error; err != nil {
		logger.Error("Failed to list active plans", err)
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return repositories.NewPage(plans, total, limit, offset), nil
}

// PriceRepositoryImpl implements PriceRepository using GORM.
type PriceRepositoryImpl struct {
	db *gorm.DB
}

// NewPriceRepository creates a new PriceRepository instance.
func NewPriceRepository(db *gorm.DB) repositories.PriceRepository {
	return &PriceRepositoryImpl{db: db}
}

func (r *PriceRepositoryImpl) Create(ctx context.Context, price *entities.Price) error {
	if err := conn(ctx, r.db).Create(price).Error; err != nil {
		logger.Error("Failed to create price", err)
		return fmt.Errorf("failed to create price: %w", err)
	}
	return nil
}

func (r *PriceRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Price, error) {
	var price entities.Price
	if err := conn(ctx, r.db).Where("id = ?", id).First(&price).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("price")
		}
		logger.Error("Failed to get price by ID", err)
		return nil, fmt.Errorf("failed to get price by ID: %w", err)
	}
	return &price, nil
}

func (r *PriceRepositoryImpl) GetByProviderPriceID(ctx context.Context, provider, providerPriceID string) (*entities.Price, error) {
	var price entities.Price
	column := fmt.Sprintf("provider_price_ids->>'%s'", provider)
	if err := conn(ctx, r.db).Where(column+" = ?", providerPriceID).First(&price).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("price")
		}
		logger.Error("Failed to get price by provider price ID", err)
		return nil, fmt.Errorf("failed to get price by provider price ID: %w", err)
	}
	return &price, nil
}

func (r *PriceRepositoryImpl) Update(ctx context.Context, price *entities.Price) error {
	if err := conn(ctx, r.db).Save(price).Error; err != nil {
		logger.Error("Failed to update price", err)
		return fmt.Errorf("failed to update price: %w", err)
	}
	return nil
}

func (r *PriceRepositoryImpl) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*entities.Price, error) {
	var prices []*entities.Price
	if err := conn(ctx, r.db).Where("plan_id = ?", planID).Order("created_at ASC").Find(&prices).Error; err != nil {
		logger.Error("Failed to list prices by plan", err)
		return nil, fmt.Errorf("failed to list prices by plan: %w", err)
	}
	return prices, nil
}

func (r *PriceRepositoryImpl) ListActiveByPlan(ctx context.Context, planID uuid.UUID) ([]*entities.Price, error) {
	var prices []*entities.Price
	if err := conn(ctx, r.db).Where("plan_id = ? AND active = ?", planID, true).Order("created_at ASC").Find(&prices).Error; err != nil {
		logger.Error("Failed to list active prices by plan", err)
		return nil, fmt.Errorf("failed to list active prices by plan: %w", err)
	}
	return prices, nil
}
