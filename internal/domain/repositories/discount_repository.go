package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// PromoCodeRepository defines storage operations for PromoCode records.
type PromoCodeRepository interface {
	Create(ctx context.Context, promo *entities.PromoCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PromoCode, error)
	GetByCode(ctx context.Context, code string) (*entities.PromoCode, error)
	Update(ctx context.Context, promo *entities.PromoCode) error

	// IncrementRedemptions atomically increments CurrentRedemptions with a
	// single conditional UPDATE, returning false if MaxRedemptions would be
	// exceeded so the caller never needs an explicit row lock to stay
	// correct under concurrent redemption.
	IncrementRedemptions(ctx context.Context, id uuid.UUID) (bool, error)

	RecordRedemption(ctx context.Context, redemption *entities.PromoCodeRedemption) error
	CountRedemptionsByCustomer(ctx context.Context, promoCodeID, customerID uuid.UUID) (int64, error)

	List(ctx context.Context, limit, offset int) (*Page[*entities.PromoCode], error)
}

// AutomaticDiscountRepository defines storage operations for
// AutomaticDiscount records.
type AutomaticDiscountRepository interface {
	Create(ctx context.Context, discount *entities.AutomaticDiscount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.AutomaticDiscount, error)
	Update(ctx context.Context, discount *entities.AutomaticDiscount) error

	// ListActiveOrderedByPriority returns all active automatic discounts
	// sorted by Priority descending, the evaluation order the discount
	// engine assumes when resolving a combination mode.
	ListActiveOrderedByPriority(ctx context.Context) ([]*entities.AutomaticDiscount, error)
}
