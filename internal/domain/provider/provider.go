// Package provider declares the Payment Provider Port: a single capability
// interface every adapter (Stripe, MercadoPago, mock) implements, instead of
// one type per provider with its own method set. Call sites dispatch on a
// provider name string to pick the adapter instance, never on provider type.
package provider

import (
	"context"
	"time"
)

// CustomerInput/CustomerOutput, and the other Input/Output pairs below, are
// the provider-agnostic request/response shapes the application layer
// speaks — no adapter leaks its SDK's own types across this boundary.

type CustomerInput struct {
	Email    string
	Name     string
	Phone    string
	Metadata map[string]string
}

type CustomerOutput struct {
	ProviderCustomerID string
}

type PaymentMethodInput struct {
	ProviderCustomerID string
	Type               string
	Token              string // provider-issued token/source, never raw card data
}

type PaymentMethodOutput struct {
	ProviderPaymentMethodID string
	Brand                   string
	Last4                   string
	ExpMonth                int
	ExpYear                 int
}

type ChargeInput struct {
	ProviderCustomerID      string
	ProviderPaymentMethodID string
	Amount                  int64
	Currency                string
	Description             string
	IdempotencyKey          string
	Metadata                map[string]string
}

type ChargeOutput struct {
	ProviderPaymentID string
	Status            string
	FailureCode       string
	FailureMessage    string
}

type RefundInput struct {
	ProviderPaymentID string
	Amount            int64
	Reason            string
	IdempotencyKey    string
}

type RefundOutput struct {
	ProviderRefundID string
	Status           string
}

type SubscriptionInput struct {
	ProviderCustomerID      string
	ProviderPriceID         string
	ProviderPaymentMethodID string
	TrialDays               int
	Metadata                map[string]string
}

type SubscriptionOutput struct {
	ProviderSubscriptionID string
	Status                 string
	CurrentPeriodStart     time.Time
	CurrentPeriodEnd       time.Time
}

type CheckoutSessionInput struct {
	ProviderCustomerID string
	ProviderPriceID    string
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

type CheckoutSessionOutput struct {
	ProviderSessionID string
	URL               string
}

type PriceInput struct {
	ProductName     string
	UnitAmount      int64
	Currency        string
	BillingInterval string
	IntervalCount   int
}

type PriceOutput struct {
	ProviderPriceID string
}

// Event is the provider-agnostic shape a verified webhook delivery is
// parsed into before dispatch to registered handlers.
type Event struct {
	ProviderEventID string
	Type            string
	Livemode        bool
	OccurredAt      time.Time
	Raw             []byte
}

// Provider is the capability set every adapter implements. Adapters that
// don't support a capability (e.g. a provider with no checkout-session
// concept) return a sentinel "not supported" error from that method rather
// than omitting it — callers dispatch on a provider name, not a type switch.
type Provider interface {
	Name() string

	CreateCustomer(ctx context.Context, in CustomerInput) (*CustomerOutput, error)
	UpdateCustomer(ctx context.Context, providerCustomerID string, in CustomerInput) error
	DeleteCustomer(ctx context.Context, providerCustomerID string) error

	AttachPaymentMethod(ctx context.Context, in PaymentMethodInput) (*PaymentMethodOutput, error)
	DetachPaymentMethod(ctx context.Context, providerPaymentMethodID string) error

	Charge(ctx context.Context, in ChargeInput) (*ChargeOutput, error)
	GetCharge(ctx context.Context, providerPaymentID string) (*ChargeOutput, error)
	Refund(ctx context.Context, in RefundInput) (*RefundOutput, error)

	CreateSubscription(ctx context.Context, in SubscriptionInput) (*SubscriptionOutput, error)
	UpdateSubscription(ctx context.Context, providerSubscriptionID string, in SubscriptionInput) (*SubscriptionOutput, error)
	CancelSubscription(ctx context.Context, providerSubscriptionID string, cancelAtPeriodEnd bool) (*SubscriptionOutput, error)
	GetSubscription(ctx context.Context, providerSubscriptionID string) (*SubscriptionOutput, error)

	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSessionOutput, error)
	CreatePrice(ctx context.Context, in PriceInput) (*PriceOutput, error)

	// VerifyWebhook checks the signature/timestamp of a raw delivery and,
	// if valid, parses it into an Event. It never dispatches the event
	// itself — that's the webhook handler registry's job (C7).
	VerifyWebhook(ctx context.Context, payload []byte, signatureHeader string, now time.Time) (*Event, error)

	// Ping exercises the minimum round-trip the health probe needs to
	// decide this provider is reachable (C9).
	Ping(ctx context.Context) error
}

// Registry resolves a provider name to its Provider implementation — the
// "small dispatcher" the design notes call for instead of a type hierarchy.
type Registry struct {
	providers map[string]Provider
	def       string
}

// NewRegistry builds a Registry with defaultProvider as the fallback name
// when a caller doesn't specify one explicitly.
func NewRegistry(defaultProvider string) *Registry {
	return &Registry{providers: make(map[string]Provider), def: defaultProvider}
}

// Register adds or replaces the adapter for a provider name.
func (r *Registry) Register(name string, p Provider) {
	r.providers[name] = p
}

// Get resolves a provider by name, falling back to the registry's default
// when name is empty.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = r.def
	}
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider(name)
	}
	return p, nil
}

// ErrUnknownProvider is returned by Get when name has no registered adapter.
type ErrUnknownProvider string

func (e ErrUnknownProvider) Error() string {
	return "provider: unknown provider " + string(e)
}
