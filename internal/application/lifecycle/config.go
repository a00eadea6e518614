package lifecycle

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// PaymentType tags every payment the engine initiates, so the provider
// adapter and downstream observability can tell renewal, trial-conversion,
// and retry attempts apart.
type PaymentType string

const (
	PaymentTypeRenewal         PaymentType = "renewal"
	PaymentTypeTrialConversion PaymentType = "trial_conversion"
	PaymentTypeRetry           PaymentType = "retry"
)

// PaymentInput is what the engine hands to Config.ProcessPayment for a
// single charge attempt.
type PaymentInput struct {
	CustomerID      uuid.UUID
	SubscriptionID  uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          int64
	Currency        string
	Type            PaymentType
}

// PaymentResult is what Config.ProcessPayment returns.
type PaymentResult struct {
	Success   bool
	PaymentID *uuid.UUID
	Error     string
}

// ProcessPaymentFunc attempts a single charge. It must not panic; any error
// returned is treated the same as Success=false.
type ProcessPaymentFunc func(ctx context.Context, in PaymentInput) (*PaymentResult, error)

// GetDefaultPaymentMethodFunc resolves a customer's default saved payment
// method, or nil if none is on file.
type GetDefaultPaymentMethodFunc func(ctx context.Context, customerID uuid.UUID) (*entities.PaymentMethod, error)

// Config is the host-supplied configuration the engine needs to run a
// single invocation of all four phases.
type Config struct {
	GracePeriodDays     int
	RetryIntervals      []int // ordered list of days, e.g. [1, 3, 5]
	TrialConversionDays int   // notice window before trialEnd; 0 = convert at trial end

	ProcessPayment          ProcessPaymentFunc
	GetDefaultPaymentMethod GetDefaultPaymentMethodFunc

	// OnEvent is invoked after each state transition's storage write has
	// succeeded, inside that subscription's transaction. A panic from
	// OnEvent is recovered and never rolls back the transition — event
	// delivery is best-effort.
	OnEvent func(Event)

	// BatchSize bounds how many subscriptions each phase pulls per
	// invocation; 0 defaults to 100.
	BatchSize int
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return 100
	}
	return c.BatchSize
}
