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

// PromoCodeRepositoryImpl implements PromoCodeRepository using GORM.
type PromoCodeRepositoryImpl struct {
	db *gorm.DB
}

// NewPromoCodeRepository creates a new PromoCodeRepository instance.
func NewPromoCodeRepository(db *gorm.DB) repositories.PromoCodeRepository {
	return &PromoCodeRepositoryImpl{db: db}
}

func (r *PromoCodeRepositoryImpl) Create(ctx context.Context, promo *entities.PromoCode) error {
	if err := conn(ctx, r.db).Create(promo).Error; err != nil {
		logger.Error("Failed to create promo code", err)
		return fmt.Errorf("failed to create promo code: %w", err)
	}
	return nil
}

func (r *PromoCodeRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.PromoCode, error) {
	var promo entities.PromoCode
	if err := conn(ctx, r.db).Where("id = ?", id).First(&promo).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("promo_code")
		}
		logger.Error("Failed to get promo code by ID", err)
		return nil, fmt.Errorf("failed to get promo code by ID: %w", err)
	}
	return &promo, nil
}

func (r *PromoCodeRepositoryImpl) GetByCode(ctx context.Context, code string) (*entities.PromoCode, error) {
	var promo entities.PromoCode
	if err := conn(ctx, r.db).Where("code = ?", code).First(&promo).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("promo_code")
		}
		logger.Error("Failed to get promo code by code", err)
		return nil, fmt.Errorf("failed to get promo code by code: %w", err)
	}
	return &promo, nil
}

func (r *PromoCodeRepositoryImpl) Update(ctx context.Context, promo *entities.PromoCode) error {
	if err := conn(ctx, r.db).Save(promo).Error; err != nil {
		logger.Error("Failed to update promo code", err)
		return fmt.Errorf("failed to update promo code: %w", err)
	}
	return nil
}

func (r *PromoCodeRepositoryImpl) IncrementRedemptions(ctx context.Context, id uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).Model(&entities.PromoCode{}).
		Where("id = ? AND (max_redemptions IS NULL OR current_redemptions < max_redemptions)", id).
		Update("current_redemptions", gorm.Expr("current_redemptions + 1"))
	if result.Error != nil {
		logger.Error("Failed to increment promo code redemptions", result.Error)
		return false, fmt.Errorf("failed to increment promo code redemptions: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PromoCodeRepositoryImpl) RecordRedemption(ctx context.Context, redemption *entities.PromoCodeRedemption) error {
	if err := conn(ctx, r.db).Create(redemption).Error; err != nil {
		logger.Error("Failed to record promo code redemption", err)
		return fmt.Errorf("failed to record promo code redemption: %w", err)
	}
	return nil
}

func (r *PromoCodeRepositoryImpl) CountRedemptionsByCustomer(ctx context.Context, promoCodeID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&entities.PromoCodeRedemption{}).
		Where("promo_code_id = ? AND customer_id = ?", promoCodeID, customerID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count promo code redemptions by customer", err)
		return 0, fmt.Errorf("failed to count promo code redemptions by customer: %w", err)
	}
	return count, nil
}

func (r *PromoCodeRepositoryImpl) List(ctx context.Context, limit, offset int) (*repositories.Page[*entities.PromoCode], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var promos []*entities.PromoCode
	var total int64

	if err := conn(ctx, r.db).Model(&entities.PromoCode{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count promo codes", err)
		return nil, fmt.Errorf("failed to count promo codes: %w", err)
	}
	if err := conn(ctx, r.db).Order("created_at DESC").Limit(limit).Offset(offset).Find(&promos).Error; err != nil {
		logger.Error("Failed to list promo codes", err)
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	return repositories.NewPage(promos, total, limit, offset), nil
}

// AutomaticDiscountRepositoryImpl implements AutomaticDiscountRepository
// using GORM.
type AutomaticDiscountRepositoryImpl struct {
	db *gorm.DB
}

// NewAutomaticDiscountRepository creates a new AutomaticDiscountRepository
// instance.
func NewAutomaticDiscountRepository(db *gorm.DB) repositories.AutomaticDiscountRepository {
	return &AutomaticDiscountRepositoryImpl{db: db}
}

func (r *AutomaticDiscountRepositoryImpl) Create(ctx context.Context, discount *entities.AutomaticDiscount) error {
	if err := conn(ctx, r.db).Create(discount).Error; err != nil {
		logger.Error("Failed to create automatic discount", err)
		return fmt.Errorf("failed to create automatic discount: %w", err)
	}
	return nil
}

func (r *AutomaticDiscountRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.AutomaticDiscount, error) {
	var discount entities.AutomaticDiscount
	if err := conn(ctx, r.db).Where("id = ?", id).First(&discount).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("automatic_discount")
		}
		logger.Error("Failed to get automatic discount by ID", err)
		return nil, fmt.Errorf("failed to get automatic discount by ID: %w", err)
	}
	return &discount, nil
}

func (r *AutomaticDiscountRepositoryImpl) Update(ctx context.Context, discount *entities.AutomaticDiscount) error {
	if err := conn(ctx, r.db).Save(discount).Error; err != nil {
		logger.Error("Failed to update automatic discount", err)
		return fmt.Errorf("failed to update automatic discount: %w", err)
	}
	return nil
}

func (r *AutomaticDiscountRepositoryImpl) ListActiveOrderedByPriority(ctx context.Context) ([]*entities.AutomaticDiscount, error) {
	var discounts []*entities.AutomaticDiscount
	if err := conn(ctx, r.db).Where("active = ?", true).Order("priority DESC").Find(&discounts).Error; err != nil {
		logger.Error("Failed to list active automatic discounts", err)
		return nil, fmt.Errorf("failed to list active automatic discounts: %w", err)
	}
	return discounts, nil
}
