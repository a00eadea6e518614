// Package volume implements the volume/graduated tiered pricing engine:
// tier lookup, flat volume discounting, and graduated (slice-by-slice)
// pricing. Pure integer arithmetic over minor currency units.
package volume

import (
	"github.com/22smeargle/qzpay/internal/domain/entities"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// FindTier returns the tier with the largest MinQuantity ≤ quantity whose
// MaxQuantity (if set) is ≥ quantity. Returns nil if no tier matches.
func FindTier(tiers []entities.VolumeTier, quantity int64) *entities.VolumeTier {
	var best *entities.VolumeTier
	for i := range tiers {
		t := &tiers[i]
		if t.MinQuantity > quantity {
			continue
		}
		if t.MaxQuantity != nil && quantity > *t.MaxQuantity {
			continue
		}
		if best == nil || t.MinQuantity > best.MinQuantity {
			best = t
		}
	}
	return best
}

// FlatVolumeDiscount finds the tier matching quantity and applies its
// discount to quantity × basePrice as a single flat amount.
func FlatVolumeDiscount(tiers []entities.VolumeTier, quantity, basePrice int64) (int64, error) {
	if quantity < 0 || basePrice < 0 {
		return 0, qzerrors.NewValidationError("quantity", "quantity and basePrice must be non-negative")
	}
	total := quantity * basePrice
	tier := FindTier(tiers, quantity)
	if tier == nil {
		return total, nil
	}
	return applyTierDiscount(tier, total)
}

// GraduatedTieredPricing prices each slice of quantity at its own tier's
// discounted unit price and sums the slices. Tiers should be contiguous
// and non-overlapping; tiers are consulted in MinQuantity order.
func GraduatedTieredPricing(tiers []entities.VolumeTier, quantity, basePrice int64) (int64, error) {
	if quantity < 0 || basePrice < 0 {
		return 0, qzerrors.NewValidationError("quantity", "quantity and basePrice must be non-negative")
	}
	ordered := orderedByMinQuantity(tiers)
	var total int64
	for i, t := range ordered {
		sliceStart := t.MinQuantity
		if sliceStart > quantity {
			break
		}
		sliceEnd := quantity
		if t.MaxQuantity != nil && *t.MaxQuantity < sliceEnd {
			sliceEnd = *t.MaxQuantity
		}
		if i+1 < len(ordered) && ordered[i+1].MinQuantity-1 < sliceEnd {
			sliceEnd = ordered[i+1].MinQuantity - 1
		}
		if sliceEnd < sliceStart {
			continue
		}
		units := sliceEnd - sliceStart + 1
		unitPrice, err := discountedUnitPrice(&t, basePrice)
		if err != nil {
			return 0, err
		}
		total += units * unitPrice
	}
	return total, nil
}

func orderedByMinQuantity(tiers []entities.VolumeTier) []entities.VolumeTier {
	out := make([]entities.VolumeTier, len(tiers))
	copy(out, tiers)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].MinQuantity < out[j-1].MinQuantity; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// discountedUnitPrice reduces basePrice by the tier's discount, never
// below zero.
func discountedUnitPrice(t *entities.VolumeTier, basePrice int64) (int64, error) {
	discount, err := applyTierDiscount(t, basePrice)
	if err != nil {
		return 0, err
	}
	price := basePrice - discount
	if price < 0 {
		price = 0
	}
	return price, nil
}

func applyTierDiscount(t *entities.VolumeTier, amount int64) (int64, error) {
	switch t.DiscountType {
	case entities.DiscountTypePercentage:
		pct := t.DiscountValue
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		return roundDiv(amount*pct, 100), nil
	case entities.DiscountTypeFixedAmount:
		amt := t.DiscountValue
		if amt < 0 {
			amt = 0
		}
		if amt > amount {
			amt = amount
		}
		return amt, nil
	default:
		return 0, qzerrors.NewValidationError("discount_type", "volume tiers only support percentage or fixed_amount discounts")
	}
}

func roundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return (num + den/2) / den
}
