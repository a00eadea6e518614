package entities

import (
	"time"

	"github.com/google/uuid"
)

// VendorPayoutStatus enumerates the states of a VendorPayout.
type VendorPayoutStatus string

const (
	VendorPayoutStatusScheduled VendorPayoutStatus = "scheduled"
	VendorPayoutStatusPending   VendorPayoutStatus = "pending"
	VendorPayoutStatusPaid      VendorPayoutStatus = "paid"
	VendorPayoutStatusFailed    VendorPayoutStatus = "failed"
)

// Vendor is a revenue-share recipient — a marketplace seller or referral
// partner whose commission is computed from settled Payments.
type Vendor struct {
	ID               uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExternalID       string            `json:"external_id" gorm:"uniqueIndex;not null"`
	Name             string            `json:"name" gorm:"not null"`
	CommissionRate   float64           `json:"commission_rate" gorm:"not null"`
	PayoutSchedule   string            `json:"payout_schedule" gorm:"not null"`
	ProviderAccountIDs map[string]string `json:"provider_account_ids" gorm:"serializer:json"`
	Active           bool              `json:"active" gorm:"default:true"`
	Metadata         map[string]string `json:"metadata" gorm:"serializer:json"`
	CreatedAt        time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// VendorPayout aggregates a Vendor's commission over a settlement period
// into a single payable amount.
type VendorPayout struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VendorID        uuid.UUID          `json:"vendor_id" gorm:"type:uuid;not null;index"`
	PeriodStart     time.Time          `json:"period_start"`
	PeriodEnd       time.Time          `json:"period_end"`
	GrossAmount     int64              `json:"gross_amount" gorm:"not null"`
	CommissionAmount int64             `json:"commission_amount" gorm:"not null"`
	NetAmount       int64              `json:"net_amount" gorm:"not null"`
	Currency        string             `json:"currency" gorm:"not null"`
	Status          VendorPayoutStatus `json:"status" gorm:"not null;index"`
	PaymentIDs      []uuid.UUID        `json:"payment_ids" gorm:"serializer:json"`
	ProviderTransferID *string         `json:"provider_transfer_id,omitempty" gorm:"uniqueIndex"`
	FailureReason   *string            `json:"failure_reason,omitempty"`
	PaidAt          *time.Time         `json:"paid_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}
