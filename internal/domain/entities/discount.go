package entities

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType enumerates how a discount's value is interpreted.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
	DiscountTypeFreeTrial   DiscountType = "free_trial"
)

// StackingMode enumerates how a discount combines with others applicable to
// the same subscription.
type StackingMode string

const (
	StackingModeNone           StackingMode = "none"
	StackingModeBest           StackingMode = "best"
	StackingModeAdditive       StackingMode = "additive"
	StackingModeMultiplicative StackingMode = "multiplicative"
)

// PromoCode is a customer-redeemable discount, optionally capped by total
// and per-customer redemption counts and a validity window.
type PromoCode struct {
	ID                        uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code                      string              `json:"code" gorm:"uniqueIndex;not null"`
	DiscountType              DiscountType        `json:"discount_type" gorm:"not null"`
	DiscountValue             int64               `json:"discount_value" gorm:"not null"`
	Currency                  *string             `json:"currency,omitempty"`
	StackingMode              StackingMode        `json:"stacking_mode" gorm:"not null;default:'none'"`
	Conditions                []DiscountCondition `json:"conditions" gorm:"serializer:json"`
	MaxRedemptions            *int64              `json:"max_redemptions,omitempty"`
	CurrentRedemptions        int64               `json:"current_redemptions" gorm:"not null;default:0"`
	MaxRedemptionsPerCustomer *int64              `json:"max_redemptions_per_customer,omitempty"`
	ApplicablePlanIDs         []uuid.UUID         `json:"applicable_plan_ids" gorm:"serializer:json"`
	ApplicableProductIDs      []uuid.UUID         `json:"applicable_product_ids" gorm:"serializer:json"`
	ValidFrom                 *time.Time          `json:"valid_from,omitempty"`
	ValidUntil                *time.Time          `json:"valid_until,omitempty"`
	Active                    bool                `json:"active" gorm:"default:true"`
	CreatedAt                 time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt                 time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// AutomaticDiscount applies without a code, gated on DiscountConditions
// (plan membership, customer segment, quantity threshold). Evaluated in
// Priority order, higher first.
type AutomaticDiscount struct {
	ID           uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string              `json:"name" gorm:"not null"`
	DiscountType DiscountType        `json:"discount_type" gorm:"not null"`
	DiscountValue int64              `json:"discount_value" gorm:"not null"`
	Currency     *string             `json:"currency,omitempty"`
	Conditions   []DiscountCondition `json:"conditions" gorm:"serializer:json"`
	Priority     int                 `json:"priority" gorm:"not null;default:0"`
	StackingMode StackingMode        `json:"stacking_mode" gorm:"not null;default:'none'"`
	Active       bool                `json:"active" gorm:"default:true"`
	ValidFrom    *time.Time          `json:"valid_from,omitempty"`
	ValidUntil   *time.Time          `json:"valid_until,omitempty"`
	CreatedAt    time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// DiscountCondition is a single predicate an AutomaticDiscount must satisfy
// to apply — e.g. {Field: "plan_id", Operator: "in", Value: [...]}.
type DiscountCondition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// PromoCodeRedemption records a single customer's use of a PromoCode, used
// to enforce per-customer and global redemption limits atomically.
type PromoCodeRedemption struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PromoCodeID    uuid.UUID  `json:"promo_code_id" gorm:"type:uuid;not null;index"`
	CustomerID     uuid.UUID  `json:"customer_id" gorm:"type:uuid;not null;index"`
	SubscriptionID *uuid.UUID `json:"subscription_id,omitempty" gorm:"type:uuid"`
	RedeemedAt     time.Time  `json:"redeemed_at"`
}
