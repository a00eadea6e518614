package discount

import (
	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// Candidate is a single discount (promo code or automatic) considered for
// stacking, reduced to the fields the stacking math needs.
type Candidate struct {
	ID           string
	DiscountType entities.DiscountType
	Value        int64
	Priority     int
}

// SkippedDiscount records why a candidate was not applied.
type SkippedDiscount struct {
	ID     string
	Reason string
}

// AppliedDiscount records the amount a single candidate contributed.
type AppliedDiscount struct {
	ID     string
	Amount int64
}

// StackResult is the full outcome of applying a set of candidates to a
// subtotal under a given StackingMode.
type StackResult struct {
	OriginalAmount   int64
	DiscountAmount   int64
	FinalAmount      int64
	AppliedDiscounts []AppliedDiscount
	SkippedDiscounts []SkippedDiscount
}

// Stack applies candidates to subtotal according to mode. Candidates must
// already be validated (see Validate) — Stack performs no eligibility
// checks of its own, only the arithmetic of combination.
func Stack(mode entities.StackingMode, subtotal int64, candidates []Candidate) StackResult {
	switch mode {
	case entities.StackingModeBest:
		return stackBest(subtotal, candidates)
	case entities.StackingModeAdditive:
		return stackAdditive(subtotal, candidates)
	case entities.StackingModeMultiplicative:
		return stackMultiplicative(subtotal, candidates)
	case entities.StackingModeNone:
		fallthrough
	default:
		return stackNone(subtotal, candidates)
	}
}

// stackNone applies only the first candidate in the slice; every later
// candidate is recorded as skipped.
func stackNone(subtotal int64, candidates []Candidate) StackResult {
	result := StackResult{OriginalAmount: subtotal, FinalAmount: subtotal}
	applied := false
	for _, c := range candidates {
		if applied {
			result.SkippedDiscounts = append(result.SkippedDiscounts, SkippedDiscount{ID: c.ID, Reason: "stacking mode 'none' allows only one discount"})
			continue
		}
		amt, err := ComputeAmount(c.DiscountType, c.Value, subtotal)
		if err != nil {
			result.SkippedDiscounts = append(result.SkippedDiscounts, SkippedDiscount{ID: c.ID, Reason: err.Error()})
			continue
		}
		result.AppliedDiscounts = append(result.AppliedDiscounts, AppliedDiscount{ID: c.ID, Amount: amt})
		result.DiscountAmount = amt
		applied = true
	}
	result.FinalAmount = subtotal - result.DiscountAmount
	return result
}

// stackBest evaluates every candidate independently against the full
// subtotal and applies only the single largest discount amount.
func stackBest(subtotal int64, candidates []Candidate) StackResult {
	result := StackResult{OriginalAmount: subtotal, FinalAmount: subtotal}
	bestIdx := -1
	var bestAmount int64 = -1
	amounts := make([]int64, len(candidates))
	for i, c := range candidates {
		amt, err := ComputeAmount(c.DiscountType, c.Value, subtotal)
		if err != nil {
			result.SkippedDiscounts = append(result.SkippedDiscounts, SkippedDiscount{ID: c.ID, Reason: err.Error()})
			amounts[i] = -1
			continue
		}
		amounts[i] = amt
		if amt > bestAmount {
			bestAmount = amt
			bestIdx = i
		}
	}
	for i, c := range candidates {
		if i == bestIdx {
			continue
		}
		if amounts[i] < 0 {
			continue
		}
		result.SkippedDiscounts = append(result.SkippedDiscounts, SkippedDiscount{ID: c.ID, Reason: "a larger discount applies under stacking mode 'best'"})
	}
	if bestIdx >= 0 {
		result.AppliedDiscounts = append(result.AppliedDiscounts, AppliedDiscount{ID: candidates[bestIdx].ID, Amount: bestAmount})
		result.DiscountAmount = bestAmount
	}
	result.FinalAmount = subtotal - result.DiscountAmount
	return result
}

// stackAdditive sums every candidate's independently-computed discount
// amount, capping the total at subtotal so the final amount never goes
// negative.
func stackAdditive(subtotal int64, candidates []Candidate) StackResult {
	result := StackResult{OriginalAmount: subtotal, FinalAmount: subtotal}
	var total int64
	for _, c := range candidates {
		amt, err := ComputeAmount(c.DiscountType, c.Value, subtotal)
		if err != nil {
			result.SkippedDiscounts = append(result.SkippedDiscounts, SkippedDiscount{ID: c.ID, Reason: err.Error()})
			continue
		}
		result.AppliedDiscounts = append(result.AppliedDiscounts, AppliedDiscount{ID: c.ID, Amount: amt})
		total += amt
	}
	if total > subtotal {
		total = subtotal
	}
	result.DiscountAmount = total
	result.FinalAmount = subtotal - total
	return result
}

// stackMultiplicative applies each candidate in order against the amount
// remaining after the previous candidate, compounding the reductions.
func stackMultiplicative(subtotal int64, candidates []Candidate) StackResult {
	result := StackResult{OriginalAmount: subtotal, FinalAmount: subtotal}
	remaining := subtotal
	for _, c := range candidates {
		amt, err := ComputeAmount(c.DiscountType, c.Value, remaining)
		if err != nil {
			result.SkippedDiscounts = append(result.SkippedDiscounts, SkippedDiscount{ID: c.ID, Reason: err.Error()})
			continue
		}
		result.AppliedDiscounts = append(result.AppliedDiscounts, AppliedDiscount{ID: c.ID, Amount: amt})
		remaining -= amt
	}
	result.DiscountAmount = subtotal - remaining
	result.FinalAmount = remaining
	return result
}

// CombinationMode selects how a redeemed PromoCode interacts with the set
// of applicable AutomaticDiscounts.
type CombinationMode string

const (
	CombinationBest       CombinationMode = "best"
	CombinationPromoFirst CombinationMode = "promo_first"
	CombinationAutoFirst  CombinationMode = "auto_first"
)

// Combine resolves a promo-code candidate against a set of automatic
// discount candidates per mode.
//
//   - best: run both independently against the full subtotal, keep whichever
//     produces the larger total discount.
//   - promo_first: apply the promo code, then stack the automatic discounts
//     (per their own mode) against what remains.
//   - auto_first: the reverse — automatic discounts first, promo code
//     against the remainder.
func Combine(mode CombinationMode, autoStackMode entities.StackingMode, subtotal int64, promo *Candidate, automatic []Candidate) StackResult {
	switch mode {
	case CombinationPromoFirst:
		return sequential(subtotal, promo, automatic, autoStackMode, true)
	case CombinationAutoFirst:
		return sequential(subtotal, promo, automatic, autoStackMode, false)
	case CombinationBest:
		fallthrough
	default:
		return combineBest(subtotal, promo, automatic, autoStackMode)
	}
}

func sequential(subtotal int64, promo *Candidate, automatic []Candidate, autoStackMode entities.StackingMode, promoFirst bool) StackResult {
	result := StackResult{OriginalAmount: subtotal, FinalAmount: subtotal}
	remaining := subtotal

	applyPromo := func() {
		if promo == nil {
			return
		}
		amt, err := ComputeAmount(promo.DiscountType, promo.Value, remaining)
		if err != nil {
			result.SkippedDiscounts = append(result.SkippedDiscounts, SkippedDiscount{ID: promo.ID, Reason: err.Error()})
			return
		}
		result.AppliedDiscounts = append(result.AppliedDiscounts, AppliedDiscount{ID: promo.ID, Amount: amt})
		remaining -= amt
	}
	applyAuto := func() {
		sub := Stack(autoStackMode, remaining, automatic)
		result.AppliedDiscounts = append(result.AppliedDiscounts, sub.AppliedDiscounts...)
		result.SkippedDiscounts = append(result.SkippedDiscounts, sub.SkippedDiscounts...)
		remaining = sub.FinalAmount
	}

	if promoFirst {
		applyPromo()
		applyAuto()
	} else {
		applyAuto()
		applyPromo()
	}

	result.DiscountAmount = subtotal - remaining
	result.FinalAmount = remaining
	return result
}

func combineBest(subtotal int64, promo *Candidate, automatic []Candidate, autoStackMode entities.StackingMode) StackResult {
	promoOnly := sequential(subtotal, promo, nil, autoStackMode, true)
	autoOnly := sequential(subtotal, nil, automatic, autoStackMode, false)
	if promoOnly.DiscountAmount >= autoOnly.DiscountAmount {
		return promoOnly
	}
	return autoOnly
}
