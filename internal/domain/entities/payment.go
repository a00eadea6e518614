package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus enumerates the states of a Payment.
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusProcessing     PaymentStatus = "processing"
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusRequiresCapture PaymentStatus = "requires_capture"
	PaymentStatusSucceeded      PaymentStatus = "succeeded"
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusCanceled       PaymentStatus = "canceled"
	PaymentStatusDisputed       PaymentStatus = "disputed"
	PaymentStatusRefunded       PaymentStatus = "refunded"
)

// Payment represents a single payment attempt against a provider, denominated
// in the customer-facing currency with an optional FX-normalized base amount
// for cross-currency MRR and reporting.
type Payment struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID        uuid.UUID         `json:"customer_id" gorm:"type:uuid;not null;index"`
	SubscriptionID    *uuid.UUID        `json:"subscription_id,omitempty" gorm:"type:uuid;index"`
	InvoiceID         *uuid.UUID        `json:"invoice_id,omitempty" gorm:"type:uuid;index"`
	Amount            int64             `json:"amount" gorm:"not null"`
	Currency          string            `json:"currency" gorm:"not null"`
	BaseAmount        *int64            `json:"base_amount,omitempty"`
	BaseCurrency      *string           `json:"base_currency,omitempty"`
	ExchangeRate      *float64          `json:"exchange_rate,omitempty"`
	Status            PaymentStatus     `json:"status" gorm:"not null;index"`
	Provider          string            `json:"provider" gorm:"not null"`
	ProviderPaymentID *string           `json:"provider_payment_id,omitempty" gorm:"uniqueIndex"`
	PaymentMethodID   *uuid.UUID        `json:"payment_method_id,omitempty" gorm:"type:uuid"`
	RefundedAmount    int64             `json:"refunded_amount" gorm:"not null;default:0"`
	FailureCode       *string           `json:"failure_code,omitempty"`
	FailureMessage    *string           `json:"failure_message,omitempty"`
	Description       *string           `json:"description,omitempty"`
	IdempotencyKey    *string           `json:"idempotency_key,omitempty" gorm:"uniqueIndex"`
	Metadata          map[string]string `json:"metadata" gorm:"serializer:json"`
	Livemode          bool              `json:"livemode" gorm:"default:false"`
	CreatedAt         time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// PaymentMethodType enumerates the kinds of payment instrument on file.
type PaymentMethodType string

const (
	PaymentMethodTypeCard        PaymentMethodType = "card"
	PaymentMethodTypeBankAccount PaymentMethodType = "bank_account"
	PaymentMethodTypeSepaDebit   PaymentMethodType = "sepa_debit"
	PaymentMethodTypeWallet      PaymentMethodType = "wallet"
)

// PaymentMethodStatus enumerates the verification state of a PaymentMethod.
type PaymentMethodStatus string

const (
	PaymentMethodStatusPendingVerification PaymentMethodStatus = "pending_verification"
	PaymentMethodStatusVerified            PaymentMethodStatus = "verified"
	PaymentMethodStatusFailed              PaymentMethodStatus = "failed"
)

// PaymentMethodCard carries display-only card details — never raw PAN/CVV,
// which lives at the provider only (non-goal: no PCI cardholder-data storage).
type PaymentMethodCard struct {
	Brand    string `json:"brand,omitempty"`
	Last4    string `json:"last4,omitempty"`
	ExpMonth int    `json:"exp_month,omitempty"`
	ExpYear  int    `json:"exp_year,omitempty"`
}

// PaymentMethodBankAccount carries display-only bank account details.
type PaymentMethodBankAccount struct {
	BankName string `json:"bank_name,omitempty"`
	Last4    string `json:"last4,omitempty"`
}

// PaymentMethod is a tokenized reference to a customer's payment instrument.
type PaymentMethod struct {
	ID                      uuid.UUID                `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CustomerID              uuid.UUID                 `json:"customer_id" gorm:"type:uuid;not null;index"`
	Type                    PaymentMethodType         `json:"type" gorm:"not null"`
	Status                  PaymentMethodStatus       `json:"status" gorm:"not null;default:'pending_verification'"`
	Provider                string                    `json:"provider" gorm:"not null"`
	ProviderPaymentMethodID string                    `json:"provider_payment_method_id" gorm:"not null;uniqueIndex"`
	Card                    *PaymentMethodCard        `json:"card,omitempty" gorm:"embedded;embeddedPrefix:card_"`
	BankAccount             *PaymentMethodBankAccount `json:"bank_account,omitempty" gorm:"embedded;embeddedPrefix:bank_"`
	BillingDetails          *Address                  `json:"billing_details,omitempty" gorm:"embedded;embeddedPrefix:billing_"`
	IsDefault               bool                      `json:"is_default" gorm:"default:false"`
	Metadata                map[string]string         `json:"metadata" gorm:"serializer:json"`
	CreatedAt               time.Time                 `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt               time.Time                 `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt               *time.Time                `json:"deleted_at,omitempty" gorm:"index"`
}

// RefundStatus enumerates the states of a Refund.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusSucceeded RefundStatus = "succeeded"
	RefundStatusFailed    RefundStatus = "failed"
	RefundStatusCanceled  RefundStatus = "canceled"
)

// Refund represents a full or partial reversal of a Payment.
type Refund struct {
	ID               uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PaymentID        uuid.UUID         `json:"payment_id" gorm:"type:uuid;not null;index"`
	Amount           int64             `json:"amount" gorm:"not null"`
	Currency         string            `json:"currency" gorm:"not null"`
	Status           RefundStatus      `json:"status" gorm:"not null;index"`
	Reason           *string           `json:"reason,omitempty"`
	ProviderRefundID *string           `json:"provider_refund_id,omitempty" gorm:"uniqueIndex"`
	FailureReason    *string           `json:"failure_reason,omitempty"`
	IdempotencyKey   *string           `json:"idempotency_key,omitempty" gorm:"uniqueIndex"`
	Metadata         map[string]string `json:"metadata" gorm:"serializer:json"`
	CreatedAt        time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsValidPaymentStatus reports whether s is a recognized PaymentStatus.
func IsValidPaymentStatus(s string) bool {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusRequiresAction,
		PaymentStatusRequiresCapture, PaymentStatusSucceeded, PaymentStatusFailed,
		PaymentStatusCanceled, PaymentStatusDisputed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// IsValidPaymentMethodType reports whether t is a recognized PaymentMethodType.
func IsValidPaymentMethodType(t string) bool {
	switch PaymentMethodType(t) {
	case PaymentMethodTypeCard, PaymentMethodTypeBankAccount, PaymentMethodTypeSepaDebit, PaymentMethodTypeWallet:
		return true
	default:
		return false
	}
}

// IsValidRefundStatus reports whether s is a recognized RefundStatus.
func IsValidRefundStatus(s string) bool {
	switch RefundStatus(s) {
	case RefundStatusPending, RefundStatusSucceeded, RefundStatusFailed, RefundStatusCanceled:
		return true
	default:
		return false
	}
}

// CanBeRefunded reports whether a payment in the given status, with the
// given amount already refunded, is eligible for a further refund request.
func CanBeRefunded(status PaymentStatus, amount, refundedAmount int64) bool {
	return status == PaymentStatusSucceeded && refundedAmount < amount
}
