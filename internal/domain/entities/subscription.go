package entities

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus enumerates the lifecycle states a Subscription can be in.
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusPaused            SubscriptionStatus = "paused"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
)

// Subscription is the central mutating entity the lifecycle engine drives.
//
// Lifecycle bookkeeping (grace period, retry state, last renewal/payment)
// is stored as first-class nullable fields rather than folded into Metadata
// — Metadata remains free-form host data only.
type Subscription struct {
	ID                 uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID         uuid.UUID          `json:"customer_id" gorm:"type:uuid;not null;index"`
	PlanID             uuid.UUID          `json:"plan_id" gorm:"type:uuid;not null;index"`
	Status             SubscriptionStatus `json:"status" gorm:"not null;index"`
	Interval           BillingInterval    `json:"interval" gorm:"not null"`
	IntervalCount      int                `json:"interval_count" gorm:"not null;default:1"`
	Quantity           int64              `json:"quantity" gorm:"not null;default:1"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	TrialStart         *time.Time         `json:"trial_start,omitempty"`
	TrialEnd           *time.Time         `json:"trial_end,omitempty"`
	CancelAt           *time.Time         `json:"cancel_at,omitempty"`
	CanceledAt         *time.Time         `json:"canceled_at,omitempty"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end" gorm:"default:false"`
	CancelReason       *string            `json:"cancel_reason,omitempty"`

	// Lifecycle bookkeeping — first-class fields (Design Notes §9), not a
	// metadata-map workaround.
	GracePeriodStartedAt *time.Time `json:"grace_period_started_at,omitempty"`
	GracePeriodEndedAt   *time.Time `json:"grace_period_ended_at,omitempty"`
	RetryCount           int        `json:"retry_count" gorm:"default:0"`
	LastRetryAt          *time.Time `json:"last_retry_at,omitempty"`
	LastRetryError       *string    `json:"last_retry_error,omitempty"`
	LastRenewalAt        *time.Time `json:"last_renewal_at,omitempty"`
	LastRenewalAttempt   *time.Time `json:"last_renewal_attempt,omitempty"`
	RenewalError         *string    `json:"renewal_error,omitempty"`
	LastPaymentID        *uuid.UUID `json:"last_payment_id,omitempty" gorm:"type:uuid"`
	RecoveredAt          *time.Time `json:"recovered_at,omitempty"`
	RecoveryPaymentID    *uuid.UUID `json:"recovery_payment_id,omitempty" gorm:"type:uuid"`
	TrialConvertedAt     *time.Time `json:"trial_converted_at,omitempty"`
	FirstPaymentID       *uuid.UUID `json:"first_payment_id,omitempty" gorm:"type:uuid"`

	ProviderSubscriptionIDs map[string]string `json:"provider_subscription_ids" gorm:"serializer:json"`
	Metadata                map[string]string `json:"metadata" gorm:"serializer:json"`

	// Version is incremented by the lifecycle and billing code on each
	// write. Repository Update does not compare it, so it does not reject
	// concurrent modification; lifecycle writes are serialized by the row
	// lock (SELECT ... FOR UPDATE) that LockForUpdate takes instead.
	Version int64 `json:"version" gorm:"default:0"`

	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// SubscriptionAddOn binds an Add-on to a Subscription with its own quantity.
type SubscriptionAddOn struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SubscriptionID uuid.UUID `json:"subscription_id" gorm:"type:uuid;not null;index"`
	AddOnID        uuid.UUID `json:"add_on_id" gorm:"type:uuid;not null;index"`
	Quantity       int64     `json:"quantity" gorm:"not null;default:1"`
	Status         string    `json:"status" gorm:"not null;default:'active'"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AddOn is a pricing extension that can be attached to a subscription.
type AddOn struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string    `json:"name" gorm:"not null"`
	UnitAmount int64     `json:"unit_amount" gorm:"not null"`
	Currency   string    `json:"currency" gorm:"not null"`
	Active     bool      `json:"active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
