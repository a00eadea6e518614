package entities

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus enumerates the states of an Invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusOpen          InvoiceStatus = "open"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
	InvoiceStatusUncollectible InvoiceStatus = "uncollectible"
)

// Invoice is the billable statement issued to a Customer for a billing
// period, itemized into InvoiceLines.
//
// Invariants (enforced by the application layer, not the struct itself):
// Total = Subtotal - Discount + Tax; AmountPaid + AmountRemaining = Total
// while Status == open; Status == paid iff AmountRemaining == 0 and PaidAt
// is set.
type Invoice struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID        uuid.UUID         `json:"customer_id" gorm:"type:uuid;not null;index"`
	SubscriptionID    *uuid.UUID        `json:"subscription_id,omitempty" gorm:"type:uuid;index"`
	Number            *string           `json:"number,omitempty" gorm:"uniqueIndex"`
	Status            InvoiceStatus     `json:"status" gorm:"not null;index"`
	Currency          string            `json:"currency" gorm:"not null"`
	Subtotal          int64             `json:"subtotal" gorm:"not null"`
	Discount          int64             `json:"discount" gorm:"not null;default:0"`
	Tax               int64             `json:"tax" gorm:"not null;default:0"`
	Total             int64             `json:"total" gorm:"not null"`
	AmountPaid        int64             `json:"amount_paid" gorm:"not null;default:0"`
	AmountRemaining   int64             `json:"amount_remaining" gorm:"not null;default:0"`
	DueDate           *time.Time        `json:"due_date,omitempty"`
	PaidAt            *time.Time        `json:"paid_at,omitempty"`
	VoidedAt          *time.Time        `json:"voided_at,omitempty"`
	PeriodStart       *time.Time        `json:"period_start,omitempty"`
	PeriodEnd         *time.Time        `json:"period_end,omitempty"`
	ProviderInvoiceID *string           `json:"provider_invoice_id,omitempty" gorm:"uniqueIndex"`
	HostedInvoiceURL  *string           `json:"hosted_invoice_url,omitempty"`
	Description       *string           `json:"description,omitempty"`
	Metadata          map[string]string `json:"metadata" gorm:"serializer:json"`
	Livemode          bool              `json:"livemode" gorm:"default:false"`
	CreatedAt         time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// InvoiceLine is a single priced item on an Invoice — a subscription period
// charge, a proration, or an add-on line. Amount = Quantity * UnitAmount.
type InvoiceLine struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InvoiceID   uuid.UUID  `json:"invoice_id" gorm:"type:uuid;not null;index"`
	Description string     `json:"description" gorm:"not null"`
	Quantity    int64      `json:"quantity" gorm:"not null;default:1"`
	UnitAmount  int64      `json:"unit_amount" gorm:"not null"`
	Amount      int64      `json:"amount" gorm:"not null"`
	PriceID     *uuid.UUID `json:"price_id,omitempty" gorm:"type:uuid"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
	Proration   bool       `json:"proration" gorm:"default:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// IsValidInvoiceStatus reports whether s is a recognized InvoiceStatus.
func IsValidInvoiceStatus(s string) bool {
	switch InvoiceStatus(s) {
	case InvoiceStatusDraft, InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusVoid, InvoiceStatusUncollectible:
		return true
	default:
		return false
	}
}

// IsInvoiceOverdue reports whether an open invoice's due date has passed.
func IsInvoiceOverdue(inv *Invoice, now time.Time) bool {
	if inv.DueDate == nil || inv.Status != InvoiceStatusOpen {
		return false
	}
	return now.After(*inv.DueDate)
}
