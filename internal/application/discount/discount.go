// Package discount implements the pure discount-computation engine:
// promo-code validation, amount calculation, and stacking of multiple
// applicable discounts. Every function here is deterministic and raises
// only *errors.AppError of ValidationError kind — no I/O, no clock reads
// beyond what the caller passes in.
package discount

import (
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// ValidationContext carries the facts a PromoCode or AutomaticDiscount is
// evaluated against. Callers build this from the subscription/cart state.
type ValidationContext struct {
	PlanID        string
	ProductIDs    []string
	Currency      string
	Subtotal      int64
	Quantity      int64
	CustomerTags  []string
	FirstPurchase bool
	CurrentDate   time.Time
}

// ValidationResult is the outcome of validating a single discount.
type ValidationResult struct {
	Valid bool
	Error string
}

// Validate checks a PromoCode against a ValidationContext, evaluating the
// checks in the fixed order the engine promises: active flag, validity
// window, redemption caps, currency match, plan/product scoping, then each
// declared condition.
func Validate(promo *entities.PromoCode, ctx ValidationContext) ValidationResult {
	if !promo.Active {
		return ValidationResult{Valid: false, Error: "promo code is not active"}
	}
	if promo.ValidUntil != nil && ctx.CurrentDate.After(*promo.ValidUntil) {
		return ValidationResult{Valid: false, Error: "promo code has expired"}
	}
	if promo.ValidFrom != nil && ctx.CurrentDate.Before(*promo.ValidFrom) {
		return ValidationResult{Valid: false, Error: "promo code is not yet valid"}
	}
	if promo.MaxRedemptions != nil && promo.CurrentRedemptions >= *promo.MaxRedemptions {
		return ValidationResult{Valid: false, Error: "promo code redemption limit reached"}
	}
	if promo.DiscountType == entities.DiscountTypeFixedAmount {
		if promo.Currency == nil || *promo.Currency != ctx.Currency {
			return ValidationResult{Valid: false, Error: "promo code currency does not match"}
		}
	}
	if len(promo.ApplicablePlanIDs) > 0 && !containsID(promo.ApplicablePlanIDs, ctx.PlanID) {
		return ValidationResult{Valid: false, Error: "promo code does not apply to this plan"}
	}
	if len(promo.ApplicableProductIDs) > 0 && !intersects(promo.ApplicableProductIDs, ctx.ProductIDs) {
		return ValidationResult{Valid: false, Error: "promo code does not apply to these products"}
	}
	for _, cond := range promo.Conditions {
		if !evaluateCondition(cond, ctx) {
			return ValidationResult{Valid: false, Error: "promo code condition not met: " + cond.Field}
		}
	}
	return ValidationResult{Valid: true}
}

func containsID(ids []uuid.UUID, target string) bool {
	for _, id := range ids {
		if id.String() == target {
			return true
		}
	}
	return false
}

func intersects(ids []uuid.UUID, targets []string) bool {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := set[id.String()]; ok {
			return true
		}
	}
	return false
}

// evaluateCondition resolves a single DiscountCondition against ctx.
// Unknown condition field names evaluate to valid (true), per the engine's
// forward-compatibility rule: a newly introduced condition type never
// retroactively invalidates discounts evaluated by older code.
func evaluateCondition(cond entities.DiscountCondition, ctx ValidationContext) bool {
	switch cond.Field {
	case "first_purchase":
		want, ok := cond.Value.(bool)
		if !ok {
			return true
		}
		return ctx.FirstPurchase == want
	case "min_amount":
		min, ok := toInt64(cond.Value)
		if !ok {
			return true
		}
		return ctx.Subtotal >= min
	case "min_quantity":
		min, ok := toInt64(cond.Value)
		if !ok {
			return true
		}
		return ctx.Quantity >= min
	case "specific_plans":
		list, ok := toStringSlice(cond.Value)
		if !ok {
			return true
		}
		return contains(list, ctx.PlanID)
	case "specific_products":
		list, ok := toStringSlice(cond.Value)
		if !ok {
			return true
		}
		for _, p := range ctx.ProductIDs {
			if contains(list, p) {
				return true
			}
		}
		return false
	case "customer_tag":
		tag, ok := cond.Value.(string)
		if !ok {
			return true
		}
		return contains(ctx.CustomerTags, tag)
	case "date_range":
		rng, ok := cond.Value.(map[string]interface{})
		if !ok {
			return true
		}
		if start, ok := rng["start"].(string); ok {
			t, err := time.Parse(time.RFC3339, start)
			if err == nil && ctx.CurrentDate.Before(t) {
				return false
			}
		}
		if end, ok := rng["end"].(string); ok {
			t, err := time.Parse(time.RFC3339, end)
			if err == nil && ctx.CurrentDate.After(t) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

// ComputeAmount computes the discount amount for a single discount applied
// against subtotal. Results never exceed subtotal.
func ComputeAmount(discountType entities.DiscountType, value, subtotal int64) (int64, error) {
	if subtotal < 0 {
		return 0, qzerrors.NewValidationError("subtotal", "must be non-negative")
	}
	switch discountType {
	case entities.DiscountTypePercentage:
		pct := value
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		return roundDiv(subtotal*pct, 100), nil
	case entities.DiscountTypeFixedAmount:
		amt := value
		if amt < 0 {
			amt = 0
		}
		if amt > subtotal {
			amt = subtotal
		}
		return amt, nil
	case entities.DiscountTypeFreeTrial:
		return subtotal, nil
	default:
		return 0, qzerrors.NewValidationError("discount_type", "unrecognized discount type")
	}
}

// roundDiv divides num/den using round-half-up semantics on non-negative
// integers, matching the engine's "round()" contract.
func roundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return (num + den/2) / den
}
