// Package mockprovider implements the domain provider.Provider port
// in-memory for local development and tests, deriving outcomes from a
// fixed test-card table instead of calling out to any real gateway.
package mockprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainprovider "github.com/22smeargle/qzpay/internal/domain/provider"
	appwebhook "github.com/22smeargle/qzpay/internal/application/webhook"
	"github.com/22smeargle/qzpay/pkg/logger"
)

const providerName = "mock"

// cardOutcome is the outcome the mock test-card table maps a token to.
type cardOutcome struct {
	status      string
	failureCode string
	attachFails bool
}

// testCards is the fixed test-card table: numbers not present default to
// succeeded.
var testCards = map[string]cardOutcome{
	"4242424242424242": {status: "succeeded"},
	"4000000000000002": {status: "failed", failureCode: "card_declined"},
	"4000000000009995": {status: "failed", failureCode: "insufficient_funds"},
	"4000000000000069": {status: "failed", failureCode: "expired_card"},
	"4000000000000127": {status: "failed", failureCode: "incorrect_cvc"},
	"4000000000000119": {status: "failed", failureCode: "processing_error"},
	"4000000000003220": {status: "requires_action"},
	"4000000000000341": {attachFails: true},
}

func outcomeFor(token string) cardOutcome {
	if o, ok := testCards[token]; ok {
		return o
	}
	return cardOutcome{status: "succeeded"}
}

type customerRecord struct {
	input domainprovider.CustomerInput
}

type paymentMethodRecord struct {
	token      string
	customerID string
}

type subscriptionRecord struct {
	input  domainprovider.SubscriptionInput
	status string
	start  time.Time
	end    time.Time
}

// Provider is the in-memory mock adapter for the Provider port.
type Provider struct {
	mu            sync.Mutex
	webhookSecret string

	customers      map[string]*customerRecord
	paymentMethods map[string]*paymentMethodRecord
	subscriptions  map[string]*subscriptionRecord
	payments       map[string]string // providerPaymentID -> status
}

// New creates a mock provider. webhookSecret signs/verifies synthetic
// webhook deliveries the mock's own test harness constructs.
func New(webhookSecret string) *Provider {
	return &Provider{
		webhookSecret:  webhookSecret,
		customers:      make(map[string]*customerRecord),
		paymentMethods: make(map[string]*paymentMethodRecord),
		subscriptions:  make(map[string]*subscriptionRecord),
		payments:       make(map[string]string),
	}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) CreateCustomer(ctx context.Context, in domainprovider.CustomerInput) (*domainprovider.CustomerOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := "cus_mock_" + uuid.NewString()
	p.customers[id] = &customerRecord{input: in}
	logger.Debug("Mock customer created", "provider_customer_id", id)
	return &domainprovider.CustomerOutput{ProviderCustomerID: id}, nil
}

func (p *Provider) UpdateCustomer(ctx context.Context, providerCustomerID string, in domainprovider.CustomerInput) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.customers[providerCustomerID]
	if !ok {
		return fmt.Errorf("mock: customer %s not found", providerCustomerID)
	}
	rec.input = in
	return nil
}

func (p *Provider) DeleteCustomer(ctx context.Context, providerCustomerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.customers, providerCustomerID)
	return nil
}

func (p *Provider) AttachPaymentMethod(ctx context.Context, in domainprovider.PaymentMethodInput) (*domainprovider.PaymentMethodOutput, error) {
	outcome := outcomeFor(in.Token)
	if outcome.attachFails {
		return nil, fmt.Errorf("mock: attach payment method failed for test card")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id := "pm_mock_" + uuid.NewString()
	p.paymentMethods[id] = &paymentMethodRecord{token: in.Token, customerID: in.ProviderCustomerID}

	last4 := in.Token
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return &domainprovider.PaymentMethodOutput{
		ProviderPaymentMethodID: id,
		Brand:                   "mock",
		Last4:                   last4,
		ExpMonth:                12,
		ExpYear:                 time.Now().Year() + 2,
	}, nil
}

func (p *Provider) DetachPaymentMethod(ctx context.Context, providerPaymentMethodID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.paymentMethods, providerPaymentMethodID)
	return nil
}

func (p *Provider) Charge(ctx context.Context, in domainprovider.ChargeInput) (*domainprovider.ChargeOutput, error) {
	p.mu.Lock()
	token := ""
	if rec, ok := p.paymentMethods[in.ProviderPaymentMethodID]; ok {
		token = rec.token
	}
	p.mu.Unlock()

	outcome := outcomeFor(token)
	id := "pi_mock_" + uuid.NewString()

	p.mu.Lock()
	p.payments[id] = outcome.status
	p.mu.Unlock()

	out := &domainprovider.ChargeOutput{ProviderPaymentID: id, Status: outcome.status}
	if outcome.status == "failed" {
		out.FailureCode = outcome.failureCode
		out.FailureMessage = strings.ReplaceAll(outcome.failureCode, "_", " ")
	}
	return out, nil
}

func (p *Provider) GetCharge(ctx context.Context, providerPaymentID string) (*domainprovider.ChargeOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.payments[providerPaymentID]
	if !ok {
		return nil, fmt.Errorf("mock: payment %s not found", providerPaymentID)
	}
	return &domainprovider.ChargeOutput{ProviderPaymentID: providerPaymentID, Status: status}, nil
}

func (p *Provider) Refund(ctx context.Context, in domainprovider.RefundInput) (*domainprovider.RefundOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.payments[in.ProviderPaymentID]; !ok {
		return nil, fmt.Errorf("mock: payment %s not found", in.ProviderPaymentID)
	}
	return &domainprovider.RefundOutput{
		ProviderRefundID: "re_mock_" + uuid.NewString(),
		Status:           "succeeded",
	}, nil
}

func (p *Provider) CreateSubscription(ctx context.Context, in domainprovider.SubscriptionInput) (*domainprovider.SubscriptionOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := "sub_mock_" + uuid.NewString()
	now := time.Now()
	status := "active"
	if in.TrialDays > 0 {
		status = "trialing"
	}
	end := now.AddDate(0, 1, 0)
	p.subscriptions[id] = &subscriptionRecord{input: in, status: status, start: now, end: end}

	return &domainprovider.SubscriptionOutput{
		ProviderSubscriptionID: id,
		Status:                 status,
		CurrentPeriodStart:     now,
		CurrentPeriodEnd:       end,
	}, nil
}

func (p *Provider) UpdateSubscription(ctx context.Context, providerSubscriptionID string, in domainprovider.SubscriptionInput) (*domainprovider.SubscriptionOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.subscriptions[providerSubscriptionID]
	if !ok {
		return nil, fmt.Errorf("mock: subscription %s not found", providerSubscriptionID)
	}
	rec.input = in
	return &domainprovider.SubscriptionOutput{
		ProviderSubscriptionID: providerSubscriptionID,
		Status:                 rec.status,
		CurrentPeriodStart:     rec.start,
		CurrentPeriodEnd:       rec.end,
	}, nil
}

func (p *Provider) CancelSubscription(ctx context.Context, providerSubscriptionID string, cancelAtPeriodEnd bool) (*domainprovider.SubscriptionOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.subscriptions[providerSubscriptionID]
	if !ok {
		return nil, fmt.Errorf("mock: subscription %s not found", providerSubscriptionID)
	}
	if !cancelAtPeriodEnd {
		rec.status = "canceled"
	}
	return &domainprovider.SubscriptionOutput{
		ProviderSubscriptionID: providerSubscriptionID,
		Status:                 rec.status,
		CurrentPeriodStart:     rec.start,
		CurrentPeriodEnd:       rec.end,
	}, nil
}

func (p *Provider) GetSubscription(ctx context.Context, providerSubscriptionID string) (*domainprovider.SubscriptionOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.subscriptions[providerSubscriptionID]
	if !ok {
		return nil, fmt.Errorf("mock: subscription %s not found", providerSubscriptionID)
	}
	return &domainprovider.SubscriptionOutput{
		ProviderSubscriptionID: providerSubscriptionID,
		Status:                 rec.status,
		CurrentPeriodStart:     rec.start,
		CurrentPeriodEnd:       rec.end,
	}, nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, in domainprovider.CheckoutSessionInput) (*domainprovider.CheckoutSessionOutput, error) {
	id := "cs_mock_" + uuid.NewString()
	return &domainprovider.CheckoutSessionOutput{
		ProviderSessionID: id,
		URL:               in.SuccessURL + "?session_id=" + id,
	}, nil
}

func (p *Provider) CreatePrice(ctx context.Context, in domainprovider.PriceInput) (*domainprovider.PriceOutput, error) {
	return &domainprovider.PriceOutput{ProviderPriceID: "price_mock_" + uuid.NewString()}, nil
}

// VerifyWebhook validates a `ts=<unixSeconds>,v1=<hex>` signature header the
// way the MercadoPago adapter does, against the mock's own webhookSecret, and
// parses payload as a JSON-encoded Event body.
func (p *Provider) VerifyWebhook(ctx context.Context, payload []byte, signatureHeader string, now time.Time) (*domainprovider.Event, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("mock: malformed webhook payload: %w", err)
	}

	sig, err := appwebhook.ParseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}
	ok, err := appwebhook.Verify(p.webhookSecret, raw.ID, sig, now, appwebhook.DefaultTimestampToleranceSeconds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("mock: invalid webhook signature")
	}

	return &domainprovider.Event{
		ProviderEventID: raw.ID,
		Type:            raw.Type,
		Livemode:        false,
		OccurredAt:      now,
		Raw:             payload,
	}, nil
}

func (p *Provider) Ping(ctx context.Context) error {
	return nil
}
