// Package mercadopagoprovider adapts MercadoPago's REST API onto the domain
// provider.Provider port. MercadoPago has no Go SDK in this codebase's
// dependency set, so this adapter talks to the API directly over net/http
// (see DESIGN.md for why that's the right call here, not a shortcut).
package mercadopagoprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	appwebhook "github.com/22smeargle/qzpay/internal/application/webhook"
	domainprovider "github.com/22smeargle/qzpay/internal/domain/provider"
	"github.com/22smeargle/qzpay/pkg/config"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

const providerName = "mercadopago"

// Provider adapts MercadoPago's REST API to the domain Provider port.
type Provider struct {
	httpClient      *http.Client
	baseURL         string
	accessToken     string
	webhookSecret   string
	notificationURL string
	tolerance       int64
}

// New creates a MercadoPago provider adapter from configuration.
func New(cfg config.MercadoPagoConfig) *Provider {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	tolerance := cfg.TimestampToleranceSec
	if tolerance == 0 {
		tolerance = 300
	}
	return &Provider{
		httpClient:      &http.Client{Timeout: timeout},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		accessToken:     cfg.AccessToken,
		webhookSecret:   cfg.WebhookSecret,
		notificationURL: cfg.NotificationURL,
		tolerance:       tolerance,
	}
}

func (p *Provider) Name() string { return providerName }

// mpRequest issues a JSON request against the MercadoPago API and decodes
// the JSON response body into out (nil to discard the body).
func (p *Provider) mpRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mercadopago: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("mercadopago: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Error("MercadoPago request failed", err)
		return qzerrors.NewExternalServiceError(providerName, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mercadopago: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return qzerrors.NewExternalServiceError(providerName, fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("mercadopago: decode response: %w", err)
		}
	}
	return nil
}

type mpCustomer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (p *Provider) CreateCustomer(ctx context.Context, in domainprovider.CustomerInput) (*domainprovider.CustomerOutput, error) {
	body := map[string]interface{}{
		"email":       in.Email,
		"first_name":  in.Name,
		"description": in.Metadata["description"],
	}
	var out mpCustomer
	if err := p.mpRequest(ctx, http.MethodPost, "/v1/customers", body, &out); err != nil {
		return nil, err
	}
	return &domainprovider.CustomerOutput{ProviderCustomerID: out.ID}, nil
}

func (p *Provider) UpdateCustomer(ctx context.Context, providerCustomerID string, in domainprovider.CustomerInput) error {
	body := map[string]interface{}{"email": in.Email, "first_name": in.Name}
	return p.mpRequest(ctx, http.MethodPut, "/v1/customers/"+providerCustomerID, body, nil)
}

func (p *Provider) DeleteCustomer(ctx context.Context, providerCustomerID string) error {
	return p.mpRequest(ctx, http.MethodDelete, "/v1/customers/"+providerCustomerID, nil, nil)
}

type mpCard struct {
	ID          string `json:"id"`
	FirstSixDigits string `json:"first_six_digits"`
	LastFourDigits string `json:"last_four_digits"`
	ExpirationMonth int `json:"expiration_month"`
	ExpirationYear  int `json:"expiration_year"`
	PaymentMethod struct {
		Name string `json:"name"`
	} `json:"payment_method"`
}

func (p *Provider) AttachPaymentMethod(ctx context.Context, in domainprovider.PaymentMethodInput) (*domainprovider.PaymentMethodOutput, error) {
	body := map[string]interface{}{"token": in.Token}
	var out mpCard
	if err := p.mpRequest(ctx, http.MethodPost, "/v1/customers/"+in.ProviderCustomerID+"/cards", body, &out); err != nil {
		return nil, err
	}
	return &domainprovider.PaymentMethodOutput{
		ProviderPaymentMethodID: out.ID,
		Brand:                   out.PaymentMethod.Name,
		Last4:                   out.LastFourDigits,
		ExpMonth:                out.ExpirationMonth,
		ExpYear:                 out.ExpirationYear,
	}, nil
}

func (p *Provider) DetachPaymentMethod(ctx context.Context, providerPaymentMethodID string) error {
	return p.mpRequest(ctx, http.MethodDelete, "/v1/cards/"+providerPaymentMethodID, nil, nil)
}

type mpPayment struct {
	ID                 int64  `json:"id"`
	Status             string `json:"status"`
	StatusDetail       string `json:"status_detail"`
}

func (p *Provider) Charge(ctx context.Context, in domainprovider.ChargeInput) (*domainprovider.ChargeOutput, error) {
	body := map[string]interface{}{
		"transaction_amount": float64(in.Amount) / 100,
		"description":        in.Description,
		"payer": map[string]interface{}{
			"id": in.ProviderCustomerID,
		},
		"token":              in.ProviderPaymentMethodID,
		"installments":       1,
		"notification_url":   p.notificationURL,
	}
	var out mpPayment
	if err := p.mpRequestIdempotent(ctx, http.MethodPost, "/v1/payments", body, &out, in.IdempotencyKey); err != nil {
		return nil, err
	}

	chargeOut := &domainprovider.ChargeOutput{
		ProviderPaymentID: strconv.FormatInt(out.ID, 10),
		Status:            mapPaymentStatus(out.Status),
	}
	if chargeOut.Status == "failed" {
		chargeOut.FailureCode = out.StatusDetail
		chargeOut.FailureMessage = out.StatusDetail
	}
	return chargeOut, nil
}

// mapPaymentStatus translates MercadoPago's payment status vocabulary
// (pending/approved/rejected/in_process/cancelled) into this port's.
func mapPaymentStatus(mpStatus string) string {
	switch mpStatus {
	case "approved":
		return "succeeded"
	case "rejected", "cancelled":
		return "failed"
	case "in_process", "pending":
		return "requires_action"
	default:
		return mpStatus
	}
}

// mpRequestIdempotent is mpRequest plus MercadoPago's idempotency header,
// used only on payment creation where retried requests must not double-charge.
func (p *Provider) mpRequestIdempotent(ctx context.Context, method, path string, body interface{}, out interface{}, idempotencyKey string) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("mercadopago: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("mercadopago: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Error("MercadoPago request failed", err)
		return qzerrors.NewExternalServiceError(providerName, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mercadopago: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return qzerrors.NewExternalServiceError(providerName, fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody)))
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("mercadopago: decode response: %w", err)
		}
	}
	return nil
}

func (p *Provider) GetCharge(ctx context.Context, providerPaymentID string) (*domainprovider.ChargeOutput, error) {
	var out mpPayment
	if err := p.mpRequest(ctx, http.MethodGet, "/v1/payments/"+providerPaymentID, nil, &out); err != nil {
		return nil, err
	}
	return &domainprovider.ChargeOutput{
		ProviderPaymentID: strconv.FormatInt(out.ID, 10),
		Status:            mapPaymentStatus(out.Status),
	}, nil
}

type mpRefund struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func (p *Provider) Refund(ctx context.Context, in domainprovider.RefundInput) (*domainprovider.RefundOutput, error) {
	body := map[string]interface{}{}
	if in.Amount > 0 {
		body["amount"] = float64(in.Amount) / 100
	}
	var out mpRefund
	if err := p.mpRequest(ctx, http.MethodPost, "/v1/payments/"+in.ProviderPaymentID+"/refunds", body, &out); err != nil {
		return nil, err
	}
	return &domainprovider.RefundOutput{
		ProviderRefundID: strconv.FormatInt(out.ID, 10),
		Status:           mapPaymentStatus(out.Status),
	}, nil
}

// MercadoPago's preapproval (subscription) resource.
type mpPreapproval struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	AutoRecurring struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	} `json:"auto_recurring"`
}

func (p *Provider) CreateSubscription(ctx context.Context, in domainprovider.SubscriptionInput) (*domainprovider.SubscriptionOutput, error) {
	body := map[string]interface{}{
		"payer_id":      in.ProviderCustomerID,
		"preapproval_plan_id": in.ProviderPriceID,
		"card_token_id": in.ProviderPaymentMethodID,
		"status":        "authorized",
	}
	var out mpPreapproval
	if err := p.mpRequest(ctx, http.MethodPost, "/preapproval", body, &out); err != nil {
		return nil, err
	}
	return preapprovalOutput(&out), nil
}

func (p *Provider) UpdateSubscription(ctx context.Context, providerSubscriptionID string, in domainprovider.SubscriptionInput) (*domainprovider.SubscriptionOutput, error) {
	body := map[string]interface{}{"preapproval_plan_id": in.ProviderPriceID}
	var out mpPreapproval
	if err := p.mpRequest(ctx, http.MethodPut, "/preapproval/"+providerSubscriptionID, body, &out); err != nil {
		return nil, err
	}
	return preapprovalOutput(&out), nil
}

func (p *Provider) CancelSubscription(ctx context.Context, providerSubscriptionID string, cancelAtPeriodEnd bool) (*domainprovider.SubscriptionOutput, error) {
	status := "cancelled"
	body := map[string]interface{}{"status": status}
	var out mpPreapproval
	if err := p.mpRequest(ctx, http.MethodPut, "/preapproval/"+providerSubscriptionID, body, &out); err != nil {
		return nil, err
	}
	return preapprovalOutput(&out), nil
}

func (p *Provider) GetSubscription(ctx context.Context, providerSubscriptionID string) (*domainprovider.SubscriptionOutput, error) {
	var out mpPreapproval
	if err := p.mpRequest(ctx, http.MethodGet, "/preapproval/"+providerSubscriptionID, nil, &out); err != nil {
		return nil, err
	}
	return preapprovalOutput(&out), nil
}

func preapprovalOutput(out *mpPreapproval) *domainprovider.SubscriptionOutput {
	result := &domainprovider.SubscriptionOutput{
		ProviderSubscriptionID: out.ID,
		Status:                 mapSubscriptionStatus(out.Status),
	}
	if t, err := time.Parse(time.RFC3339, out.AutoRecurring.StartDate); err == nil {
		result.CurrentPeriodStart = t
	}
	if t, err := time.Parse(time.RFC3339, out.AutoRecurring.EndDate); err == nil {
		result.CurrentPeriodEnd = t
	}
	return result
}

func mapSubscriptionStatus(mpStatus string) string {
	switch mpStatus {
	case "authorized":
		return "active"
	case "paused":
		return "paused"
	case "cancelled":
		return "canceled"
	case "pending":
		return "incomplete"
	default:
		return mpStatus
	}
}

type mpCheckoutPreference struct {
	ID          string `json:"id"`
	InitPoint   string `json:"init_point"`
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, in domainprovider.CheckoutSessionInput) (*domainprovider.CheckoutSessionOutput, error) {
	body := map[string]interface{}{
		"payer": map[string]interface{}{"id": in.ProviderCustomerID},
		"items": []map[string]interface{}{
			{"id": in.ProviderPriceID, "quantity": 1},
		},
		"back_urls": map[string]interface{}{
			"success": in.SuccessURL,
			"failure": in.CancelURL,
		},
		"notification_url": p.notificationURL,
	}
	var out mpCheckoutPreference
	if err := p.mpRequest(ctx, http.MethodPost, "/checkout/preferences", body, &out); err != nil {
		return nil, err
	}
	return &domainprovider.CheckoutSessionOutput{ProviderSessionID: out.ID, URL: out.InitPoint}, nil
}

type mpPreapprovalPlan struct {
	ID string `json:"id"`
}

func (p *Provider) CreatePrice(ctx context.Context, in domainprovider.PriceInput) (*domainprovider.PriceOutput, error) {
	body := map[string]interface{}{
		"reason": in.ProductName,
		"auto_recurring": map[string]interface{}{
			"frequency":          in.IntervalCount,
			"frequency_type":     mercadoPagoInterval(in.BillingInterval),
			"transaction_amount": float64(in.UnitAmount) / 100,
			"currency_id":        strings.ToUpper(in.Currency),
		},
	}
	var out mpPreapprovalPlan
	if err := p.mpRequest(ctx, http.MethodPost, "/preapproval_plan", body, &out); err != nil {
		return nil, err
	}
	return &domainprovider.PriceOutput{ProviderPriceID: out.ID}, nil
}

func mercadoPagoInterval(billingInterval string) string {
	switch billingInterval {
	case "day":
		return "days"
	case "week":
		return "weeks"
	case "year":
		return "years"
	default:
		return "months"
	}
}

// VerifyWebhook validates the `ts=<unix>,v1=<hex>` signature header via the
// same ParseSignatureHeader/Verify pair the mock adapter uses, keyed by
// webhookSecret. The Stripe adapter does not use this scheme; it verifies
// with stripe-go's own webhook helper.
func (p *Provider) VerifyWebhook(ctx context.Context, payload []byte, signatureHeader string, now time.Time) (*domainprovider.Event, error) {
	var notification struct {
		ID          string `json:"id"`
		Action      string `json:"action"`
		Type        string `json:"type"`
		Live        bool   `json:"live_mode"`
		DateCreated string `json:"date_created"`
	}
	if err := json.Unmarshal(payload, &notification); err != nil {
		return nil, qzerrors.NewMalformedWebhookError(err.Error())
	}

	sig, err := appwebhook.ParseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}
	ok, err := appwebhook.Verify(p.webhookSecret, notification.ID, sig, now, int(p.tolerance))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, qzerrors.NewInvalidSignatureError("HMAC mismatch")
	}

	eventType := notification.Type
	if eventType == "" {
		eventType = notification.Action
	}
	occurredAt := now
	if t, err := time.Parse(time.RFC3339, notification.DateCreated); err == nil {
		occurredAt = t
	}

	return &domainprovider.Event{
		ProviderEventID: notification.ID,
		Type:            eventType,
		Livemode:        notification.Live,
		OccurredAt:      occurredAt,
		Raw:             payload,
	}, nil
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.mpRequest(ctx, http.MethodGet, "/users/me", nil, nil)
}
