package entities

import (
	"time"

	"github.com/google/uuid"
)

// EntitlementDefinition declares a named boolean capability a Plan can grant
// (e.g. "api_access", "priority_support").
type EntitlementDefinition struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Key         string    `json:"key" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// EntitlementGrantSource enumerates where an EntitlementGrant originated.
type EntitlementGrantSource string

const (
	EntitlementSourceSubscription EntitlementGrantSource = "subscription"
	EntitlementSourceAddOn        EntitlementGrantSource = "addon"
	EntitlementSourceManual       EntitlementGrantSource = "manual"
	EntitlementSourcePromotion    EntitlementGrantSource = "promotion"
)

// EntitlementGrant records that a Customer currently holds a given
// entitlement. Re-granting the same (CustomerID, EntitlementKey) pair
// widens ExpiresAt to the later of the two (a nil ExpiresAt — no expiry —
// always wins over any finite one); EntitlementRepository.Grant enforces
// this, not the struct.
type EntitlementGrant struct {
	ID             uuid.UUID               `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID     uuid.UUID               `json:"customer_id" gorm:"type:uuid;not null;index"`
	EntitlementKey string                  `json:"entitlement_key" gorm:"not null;index"`
	GrantedAt      time.Time               `json:"granted_at"`
	ExpiresAt      *time.Time              `json:"expires_at,omitempty"`
	Source         EntitlementGrantSource  `json:"source" gorm:"not null"`
	SourceID       *uuid.UUID              `json:"source_id,omitempty" gorm:"type:uuid"`
}

// LimitDefinition declares a named numeric quota a Plan can bound
// (e.g. "max_seats", "monthly_api_calls").
type LimitDefinition struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Key          string    `json:"key" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	DefaultValue int64     `json:"default_value" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// CustomerLimit tracks a Customer's current usage against a quota. The
// allowed invariant is CurrentValue < MaxValue.
type CustomerLimit struct {
	ID           uuid.UUID               `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID   uuid.UUID               `json:"customer_id" gorm:"type:uuid;not null;index"`
	LimitKey     string                  `json:"limit_key" gorm:"not null;index"`
	MaxValue     int64                   `json:"max_value" gorm:"not null"`
	CurrentValue int64                   `json:"current_value" gorm:"not null;default:0"`
	ResetAt      *time.Time              `json:"reset_at,omitempty"`
	Source       EntitlementGrantSource  `json:"source" gorm:"not null"`
	UpdatedAt    time.Time               `json:"updated_at" gorm:"autoUpdateTime"`
}

// UsageAction enumerates how a UsageRecord mutates a CustomerLimit.
type UsageAction string

const (
	UsageActionIncrement UsageAction = "increment"
	UsageActionSet       UsageAction = "set"
)

// UsageRecord is a single metered consumption event against a subscription's
// usage-based limit.
type UsageRecord struct {
	ID             uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SubscriptionID uuid.UUID         `json:"subscription_id" gorm:"type:uuid;not null;index"`
	MetricName     string            `json:"metric_name" gorm:"not null;index"`
	Action         UsageAction       `json:"action" gorm:"not null"`
	Quantity       int64             `json:"quantity" gorm:"not null"`
	IdempotencyKey *string           `json:"idempotency_key,omitempty" gorm:"uniqueIndex"`
	RecordedAt     time.Time         `json:"recorded_at"`
	Metadata       map[string]string `json:"metadata" gorm:"serializer:json"`
}

// IsWithinLimit reports whether a CustomerLimit still permits consumption.
func IsWithinLimit(limit *CustomerLimit) bool {
	return limit.CurrentValue < limit.MaxValue
}
