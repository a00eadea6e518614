// Package stripeprovider adapts stripe-go onto the domain provider.Provider
// port. Every method translates provider.Input/Output shapes to and from
// the Stripe SDK's own types so no Stripe type crosses the port boundary.
package stripeprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/paymentmethod"
	"github.com/stripe/stripe-go/v76/price"
	"github.com/stripe/stripe-go/v76/product"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/sub"
	"github.com/stripe/stripe-go/v76/webhook"

	domainprovider "github.com/22smeargle/qzpay/internal/domain/provider"
	"github.com/22smeargle/qzpay/pkg/config"
	"github.com/22smeargle/qzpay/pkg/logger"
)

const providerName = "stripe"

// Provider adapts the Stripe API to the domain Provider port.
type Provider struct {
	secretKey      string
	publishableKey string
	webhookSecret  string
	successURL     string
	cancelURL      string
}

// New creates a Stripe provider adapter from configuration. It sets the
// package-level stripe.Key the way stripe-go's top-level helper functions
// expect.
func New(cfg config.StripeConfig) *Provider {
	stripe.Key = cfg.SecretKey
	return &Provider{
		secretKey:      cfg.SecretKey,
		publishableKey: cfg.PublishableKey,
		webhookSecret:  cfg.WebhookSecret,
		successURL:     cfg.SuccessURL,
		cancelURL:      cfg.CancelURL,
	}
}

func (p *Provider) Name() string { return providerName }

func (p *Provider) CreateCustomer(ctx context.Context, in domainprovider.CustomerInput) (*domainprovider.CustomerOutput, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(in.Email),
		Name:     stripe.String(in.Name),
		Metadata: in.Metadata,
	}
	if in.Phone != "" {
		params.Phone = stripe.String(in.Phone)
	}

	cust, err := customer.New(params)
	if err != nil {
		logger.Error("Failed to create Stripe customer", err)
		return nil, fmt.Errorf("stripe: create customer: %w", err)
	}

	logger.Info("Stripe customer created", map[string]interface{}{"customer_id": cust.ID})
	return &domainprovider.CustomerOutput{ProviderCustomerID: cust.ID}, nil
}

func (p *Provider) UpdateCustomer(ctx context.Context, providerCustomerID string, in domainprovider.CustomerInput) error {
	params := &stripe.CustomerParams{}
	if in.Email != "" {
		params.Email = stripe.String(in.Email)
	}
	if in.Name != "" {
		params.Name = stripe.String(in.Name)
	}
	if in.Phone != "" {
		params.Phone = stripe.String(in.Phone)
	}
	if in.Metadata != nil {
		params.Metadata = in.Metadata
	}

	if _, err := customer.Update(providerCustomerID, params); err != nil {
		logger.Error("Failed to update Stripe customer", err)
		return fmt.Errorf("stripe: update customer: %w", err)
	}
	return nil
}

func (p *Provider) DeleteCustomer(ctx context.Context, providerCustomerID string) error {
	if _, err := customer.Del(providerCustomerID, nil); err != nil {
		logger.Error("Failed to delete Stripe customer", err)
		return fmt.Errorf("stripe: delete customer: %w", err)
	}
	return nil
}

func (p *Provider) AttachPaymentMethod(ctx context.Context, in domainprovider.PaymentMethodInput) (*domainprovider.PaymentMethodOutput, error) {
	pm, err := paymentmethod.Attach(in.Token, &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(in.ProviderCustomerID),
	})
	if err != nil {
		logger.Error("Failed to attach Stripe payment method", err)
		return nil, fmt.Errorf("stripe: attach payment method: %w", err)
	}

	out := &domainprovider.PaymentMethodOutput{ProviderPaymentMethodID: pm.ID}
	if pm.Card != nil {
		out.Brand = string(pm.Card.Brand)
		out.Last4 = pm.Card.Last4
		out.ExpMonth = int(pm.Card.ExpMonth)
		out.ExpYear = int(pm.Card.ExpYear)
	}
	return out, nil
}

func (p *Provider) DetachPaymentMethod(ctx context.Context, providerPaymentMethodID string) error {
	if _, err := paymentmethod.Detach(providerPaymentMethodID, nil); err != nil {
		logger.Error("Failed to detach Stripe payment method", err)
		return fmt.Errorf("stripe: detach payment method: %w", err)
	}
	return nil
}

func (p *Provider) Charge(ctx context.Context, in domainprovider.ChargeInput) (*domainprovider.ChargeOutput, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(in.Amount),
		Currency:      stripe.String(in.Currency),
		Customer:      stripe.String(in.ProviderCustomerID),
		Description:   stripe.String(in.Description),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
		Metadata:      in.Metadata,
	}
	if in.ProviderPaymentMethodID != "" {
		params.PaymentMethod = stripe.String(in.ProviderPaymentMethodID)
	}
	if in.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(in.IdempotencyKey)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return chargeOutputFromError(err)
	}

	return &domainprovider.ChargeOutput{
		ProviderPaymentID: pi.ID,
		Status:            string(pi.Status),
	}, nil
}

// chargeOutputFromError translates a Stripe card-decline error into a
// ChargeOutput carrying the failure code/message instead of bubbling a Go
// error, since a decline is a valid outcome the billing engine must record.
func chargeOutputFromError(err error) (*domainprovider.ChargeOutput, error) {
	stripeErr, ok := err.(*stripe.Error)
	if !ok {
		logger.Error("Failed to charge via Stripe", err)
		return nil, fmt.Errorf("stripe: charge: %w", err)
	}
	if stripeErr.Type == stripe.ErrorTypeCard {
		return &domainprovider.ChargeOutput{
			Status:         "failed",
			FailureCode:    string(stripeErr.Code),
			FailureMessage: stripeErr.Msg,
		}, nil
	}
	logger.Error("Failed to charge via Stripe", err)
	return nil, fmt.Errorf("stripe: charge: %w", err)
}

func (p *Provider) GetCharge(ctx context.Context, providerPaymentID string) (*domainprovider.ChargeOutput, error) {
	pi, err := paymentintent.Get(providerPaymentID, nil)
	if err != nil {
		logger.Error("Failed to get Stripe payment intent", err)
		return nil, fmt.Errorf("stripe: get charge: %w", err)
	}
	return &domainprovider.ChargeOutput{
		ProviderPaymentID: pi.ID,
		Status:            string(pi.Status),
	}, nil
}

func (p *Provider) Refund(ctx context.Context, in domainprovider.RefundInput) (*domainprovider.RefundOutput, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(in.ProviderPaymentID),
	}
	if in.Amount > 0 {
		params.Amount = stripe.Int64(in.Amount)
	}
	if in.Reason != "" {
		params.Reason = stripe.String(in.Reason)
	}
	if in.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(in.IdempotencyKey)
	}

	r, err := refund.New(params)
	if err != nil {
		logger.Error("Failed to refund via Stripe", err)
		return nil, fmt.Errorf("stripe: refund: %w", err)
	}
	return &domainprovider.RefundOutput{
		ProviderRefundID: r.ID,
		Status:           string(r.Status),
	}, nil
}

func (p *Provider) CreateSubscription(ctx context.Context, in domainprovider.SubscriptionInput) (*domainprovider.SubscriptionOutput, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(in.ProviderCustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(in.ProviderPriceID)},
		},
		Metadata: in.Metadata,
	}
	if in.ProviderPaymentMethodID != "" {
		params.DefaultPaymentMethod = stripe.String(in.ProviderPaymentMethodID)
	}
	if in.TrialDays > 0 {
		params.TrialPeriodDays = stripe.Int64(int64(in.TrialDays))
	}

	s, err := sub.New(params)
	if err != nil {
		logger.Error("Failed to create Stripe subscription", err)
		return nil, fmt.Errorf("stripe: create subscription: %w", err)
	}
	return subscriptionOutput(s), nil
}

func (p *Provider) UpdateSubscription(ctx context.Context, providerSubscriptionID string, in domainprovider.SubscriptionInput) (*domainprovider.SubscriptionOutput, error) {
	params := &stripe.SubscriptionParams{}
	if in.ProviderPriceID != "" {
		existing, err := sub.Get(providerSubscriptionID, nil)
		if err != nil {
			logger.Error("Failed to load Stripe subscription for update", err)
			return nil, fmt.Errorf("stripe: update subscription: %w", err)
		}
		itemID := ""
		if len(existing.Items.Data) > 0 {
			itemID = existing.Items.Data[0].ID
		}
		params.Items = []*stripe.SubscriptionItemsParams{
			{ID: stripe.String(itemID), Price: stripe.String(in.ProviderPriceID)},
		}
	}

	s, err := sub.Update(providerSubscriptionID, params)
	if err != nil {
		logger.Error("Failed to update Stripe subscription", err)
		return nil, fmt.Errorf("stripe: update subscription: %w", err)
	}
	return subscriptionOutput(s), nil
}

func (p *Provider) CancelSubscription(ctx context.Context, providerSubscriptionID string, cancelAtPeriodEnd bool) (*domainprovider.SubscriptionOutput, error) {
	var s *stripe.Subscription
	var err error
	if cancelAtPeriodEnd {
		s, err = sub.Update(providerSubscriptionID, &stripe.SubscriptionParams{
			CancelAtPeriodEnd: stripe.Bool(true),
		})
	} else {
		s, err = sub.Cancel(providerSubscriptionID, nil)
	}
	if err != nil {
		logger.Error("Failed to cancel Stripe subscription", err)
		return nil, fmt.Errorf("stripe: cancel subscription: %w", err)
	}
	return subscriptionOutput(s), nil
}

func (p *Provider) GetSubscription(ctx context.Context, providerSubscriptionID string) (*domainprovider.SubscriptionOutput, error) {
	s, err := sub.Get(providerSubscriptionID, nil)
	if err != nil {
		logger.Error("Failed to get Stripe subscription", err)
		return nil, fmt.Errorf("stripe: get subscription: %w", err)
	}
	return subscriptionOutput(s), nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, in domainprovider.CheckoutSessionInput) (*domainprovider.CheckoutSessionOutput, error) {
	successURL := in.SuccessURL
	if successURL == "" {
		successURL = p.successURL
	}
	cancelURL := in.CancelURL
	if cancelURL == "" {
		cancelURL = p.cancelURL
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(in.ProviderCustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(in.ProviderPriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		Metadata:   in.Metadata,
	}

	s, err := session.New(params)
	if err != nil {
		logger.Error("Failed to create Stripe checkout session", err)
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &domainprovider.CheckoutSessionOutput{
		ProviderSessionID: s.ID,
		URL:               s.URL,
	}, nil
}

func (p *Provider) CreatePrice(ctx context.Context, in domainprovider.PriceInput) (*domainprovider.PriceOutput, error) {
	prod, err := product.New(&stripe.ProductParams{Name: stripe.String(in.ProductName)})
	if err != nil {
		logger.Error("Failed to create Stripe product", err)
		return nil, fmt.Errorf("stripe: create product: %w", err)
	}

	params := &stripe.PriceParams{
		Product:    stripe.String(prod.ID),
		UnitAmount: stripe.Int64(in.UnitAmount),
		Currency:   stripe.String(in.Currency),
	}
	if in.BillingInterval != "" && in.BillingInterval != "one_time" {
		params.Recurring = &stripe.PriceRecurringParams{
			Interval:      stripe.String(in.BillingInterval),
			IntervalCount: stripe.Int64(int64(in.IntervalCount)),
		}
	}

	pr, err := price.New(params)
	if err != nil {
		logger.Error("Failed to create Stripe price", err)
		return nil, fmt.Errorf("stripe: create price: %w", err)
	}
	return &domainprovider.PriceOutput{ProviderPriceID: pr.ID}, nil
}

func (p *Provider) VerifyWebhook(ctx context.Context, payload []byte, signatureHeader string, now time.Time) (*domainprovider.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: verify webhook: %w", err)
	}

	return &domainprovider.Event{
		ProviderEventID: event.ID,
		Type:            string(event.Type),
		Livemode:        event.Livemode,
		OccurredAt:      time.Unix(event.Created, 0),
		Raw:             event.Data.Raw,
	}, nil
}

func (p *Provider) Ping(ctx context.Context) error {
	params := &stripe.CustomerListParams{}
	params.Filters.AddFilter("limit", "", "1")
	iter := customer.List(params)
	iter.Next()
	return iter.Err()
}

func subscriptionOutput(s *stripe.Subscription) *domainprovider.SubscriptionOutput {
	return &domainprovider.SubscriptionOutput{
		ProviderSubscriptionID: s.ID,
		Status:                 string(s.Status),
		CurrentPeriodStart:     time.Unix(s.CurrentPeriodStart, 0),
		CurrentPeriodEnd:       time.Unix(s.CurrentPeriodEnd, 0),
	}
}
