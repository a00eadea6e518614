package entities

import (
	"time"

	"github.com/google/uuid"
)

// PlanFeature describes a single named feature of a plan
type PlanFeature struct {
	Name     string `json:"name"`
	Included bool   `json:"included"`
}

// Plan represents a sellable offering. Prices, entitlements, and default
// limits attach to a Plan; the Plan itself carries no price.
type Plan struct {
	ID              uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string            `json:"name" gorm:"not null"`
	Description     *string           `json:"description,omitempty"`
	Active          bool              `json:"active" gorm:"default:true"`
	Features        []PlanFeature     `json:"features" gorm:"serializer:json"`
	EntitlementKeys []string          `json:"entitlement_keys" gorm:"serializer:json"`
	LimitDefaults   map[string]int64  `json:"limit_defaults" gorm:"serializer:json"`
	Metadata        map[string]string `json:"metadata" gorm:"serializer:json"`
	CreatedAt       time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       *time.Time        `json:"deleted_at,omitempty" gorm:"index"`
}

// BillingInterval enumerates the recurrence unit of a Price.
type BillingInterval string

const (
	IntervalDay     BillingInterval = "day"
	IntervalWeek    BillingInterval = "week"
	IntervalMonth   BillingInterval = "month"
	IntervalYear    BillingInterval = "year"
	IntervalOneTime BillingInterval = "one_time"
)

// VolumeTier is one band of a Price's volume/graduated pricing schedule —
// quantities in [MinQuantity, MaxQuantity] (MaxQuantity nil means
// unbounded) get DiscountType/DiscountValue applied against UnitAmount.
type VolumeTier struct {
	MinQuantity   int64        `json:"min_quantity"`
	MaxQuantity   *int64       `json:"max_quantity,omitempty"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
}

// Price represents a concrete amount + currency + cadence a Plan can be
// purchased at. unitAmount is expressed in integer minor currency units.
type Price struct {
	ID               uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlanID           uuid.UUID         `json:"plan_id" gorm:"type:uuid;not null;index"`
	Currency         string            `json:"currency" gorm:"not null"`
	UnitAmount       int64             `json:"unit_amount" gorm:"not null"`
	BillingInterval  BillingInterval   `json:"billing_interval" gorm:"not null"`
	IntervalCount    int               `json:"interval_count" gorm:"not null;default:1"`
	TrialDays        *int              `json:"trial_days,omitempty"`
	Active           bool              `json:"active" gorm:"default:true"`
	VolumeTiers      []VolumeTier      `json:"volume_tiers,omitempty" gorm:"serializer:json"`
	ProviderPriceIDs map[string]string `json:"provider_price_ids" gorm:"serializer:json"`
	CreatedAt        time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt        *time.Time        `json:"deleted_at,omitempty" gorm:"index"`
}
