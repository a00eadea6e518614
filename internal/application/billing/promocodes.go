package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/discount"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// CreatePromoCode persists a new promo code.
func (f *Facade) CreatePromoCode(ctx context.Context, promo *entities.PromoCode) (*entities.PromoCode, error) {
	if err := f.storage.PromoCodes().Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("creating promo code: %w", err)
	}
	return promo, nil
}

// GetPromoCodeByCode fetches a promo code by its human-entered code.
func (f *Facade) GetPromoCodeByCode(ctx context.Context, code string) (*entities.PromoCode, error) {
	return f.storage.PromoCodes().GetByCode(ctx, code)
}

// RedeemPromoCode validates a promo code against the given checkout context,
// computes the discount, and — only on success — atomically increments its
// redemption counter and records the redemption. The redemption count is
// never touched when validation fails.
func (f *Facade) RedeemPromoCode(ctx context.Context, customerID uuid.UUID, code string, valCtx discount.ValidationContext) (int64, error) {
	promo, err := f.storage.PromoCodes().GetByCode(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("fetching promo code: %w", err)
	}
	result := discount.Validate(promo, valCtx)
	if !result.Valid {
		return 0, qzerrors.NewForbiddenError(result.Error)
	}

	amount, err := discount.ComputeAmount(promo.DiscountType, promo.DiscountValue, valCtx.Subtotal)
	if err != nil {
		return 0, err
	}

	ok, err := f.storage.PromoCodes().IncrementRedemptions(ctx, promo.ID)
	if err != nil {
		return 0, fmt.Errorf("incrementing redemptions: %w", err)
	}
	if !ok {
		return 0, qzerrors.NewConflictError("promo code has reached its maximum redemptions")
	}

	redemption := &entities.PromoCodeRedemption{
		PromoCodeID: promo.ID,
		CustomerID:  customerID,
		RedeemedAt:  f.clock.Now(),
	}
	if err := f.storage.PromoCodes().RecordRedemption(ctx, redemption); err != nil {
		return 0, fmt.Errorf("recording redemption: %w", err)
	}
	return amount, nil
}
