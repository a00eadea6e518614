package discount

import (
	"sort"
	"strconv"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// EligibleAutomaticDiscounts filters discounts down to those that are
// active, inside their validity window, and satisfy every condition, then
// sorts the survivors by Priority descending — the order the stacking
// engine assumes when resolving additive/multiplicative combination.
func EligibleAutomaticDiscounts(discounts []*entities.AutomaticDiscount, ctx ValidationContext) []*entities.AutomaticDiscount {
	eligible := make([]*entities.AutomaticDiscount, 0, len(discounts))
	for _, d := range discounts {
		if !d.Active {
			continue
		}
		if d.ValidUntil != nil && ctx.CurrentDate.After(*d.ValidUntil) {
			continue
		}
		if d.ValidFrom != nil && ctx.CurrentDate.Before(*d.ValidFrom) {
			continue
		}
		ok := true
		for _, cond := range d.Conditions {
			if !evaluateCondition(cond, ctx) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		eligible = append(eligible, d)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority > eligible[j].Priority
	})
	return eligible
}

// ToCandidates adapts a slice of AutomaticDiscount into the stacking
// engine's Candidate shape, preserving eligibility order.
func ToCandidates(discounts []*entities.AutomaticDiscount) []Candidate {
	out := make([]Candidate, 0, len(discounts))
	for _, d := range discounts {
		out = append(out, Candidate{
			ID:           d.ID.String(),
			DiscountType: d.DiscountType,
			Value:        d.DiscountValue,
			Priority:     d.Priority,
		})
	}
	return out
}

// RemainingRedemptions reports how many more times a PromoCode may be
// redeemed globally, or -1 when it carries no cap.
func RemainingRedemptions(promo *entities.PromoCode) int64 {
	if promo.MaxRedemptions == nil {
		return -1
	}
	remaining := *promo.MaxRedemptions - promo.CurrentRedemptions
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Describe renders a short human-readable summary of a discount's effect,
// e.g. "20% off" or "5.00 off", for display on invoices and receipts.
// For fixed-amount discounts value is expressed in minor currency units.
func Describe(discountType entities.DiscountType, value int64) string {
	switch discountType {
	case entities.DiscountTypePercentage:
		return formatPercent(value) + "% off"
	case entities.DiscountTypeFixedAmount:
		return formatMinorUnits(value) + " off"
	case entities.DiscountTypeFreeTrial:
		return "free trial"
	default:
		return ""
	}
}

func formatPercent(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatMinorUnits(v int64) string {
	major := v / 100
	minor := v % 100
	if minor < 0 {
		minor = -minor
	}
	minorStr := strconv.FormatInt(minor, 10)
	if len(minorStr) < 2 {
		minorStr = "0" + minorStr
	}
	return strconv.FormatInt(major, 10) + "." + minorStr
}
