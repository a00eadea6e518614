package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/provider"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// GetPayment fetches a payment by id.
func (f *Facade) GetPayment(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	return f.storage.Payments().GetByID(ctx, id)
}

// ListPaymentsByCustomer paginates a customer's payments.
func (f *Facade) ListPaymentsByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Payment], error) {
	return f.storage.Payments().ListByCustomer(ctx, customerID, limit, offset)
}

// AddPaymentMethod attaches a provider-tokenized payment method to a
// customer. token must already be a provider-issued token/source — raw
// cardholder data never passes through this layer.
func (f *Facade) AddPaymentMethod(ctx context.Context, customerID uuid.UUID, providerName, methodType, providerCustomerID, token string, isDefault bool) (*entities.PaymentMethod, error) {
	p, err := f.providers.Get(providerName)
	if err != nil {
		return nil, fmt.Errorf("resolving provider: %w", err)
	}
	out, err := p.AttachPaymentMethod(ctx, provider.PaymentMethodInput{
		ProviderCustomerID: providerCustomerID,
		Type:               methodType,
		Token:              token,
	})
	if err != nil {
		return nil, fmt.Errorf("attaching payment method: %w", err)
	}

	method := &entities.PaymentMethod{
		CustomerID:              customerID,
		Type:                    entities.PaymentMethodType(methodType),
		Status:                  entities.PaymentMethodStatusVerified,
		Provider:                providerName,
		ProviderPaymentMethodID: out.ProviderPaymentMethodID,
		IsDefault:               isDefault,
	}
	if out.Brand != "" || out.Last4 != "" {
		method.Card = &entities.PaymentMethodCard{
			Brand:    out.Brand,
			Last4:    out.Last4,
			ExpMonth: out.ExpMonth,
			ExpYear:  out.ExpYear,
		}
	}

	err = f.storage.Transaction(ctx, func(ctx context.Context) error {
		if isDefault {
			if err := f.storage.PaymentMethods().ClearDefault(ctx, customerID, uuid.Nil); err != nil {
				return fmt.Errorf("clearing default payment methods: %w", err)
			}
		}
		return f.storage.PaymentMethods().Create(ctx, method)
	})
	if err != nil {
		return nil, fmt.Errorf("creating payment method: %w", err)
	}
	return method, nil
}

// SetDefaultPaymentMethod makes paymentMethodID the customer's sole default,
// clearing the flag on every other payment method in the same transaction
// so exactly one default exists at a time.
func (f *Facade) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID uuid.UUID) error {
	method, err := f.storage.PaymentMethods().GetByID(ctx, paymentMethodID)
	if err != nil {
		return fmt.Errorf("fetching payment method: %w", err)
	}
	if method.CustomerID != customerID {
		return qzerrors.NewForbiddenError("payment method does not belong to customer")
	}
	if method.IsDefault {
		return nil
	}

	return f.storage.Transaction(ctx, func(ctx context.Context) error {
		if err := f.storage.PaymentMethods().ClearDefault(ctx, customerID, paymentMethodID); err != nil {
			return fmt.Errorf("clearing default payment methods: %w", err)
		}
		method.IsDefault = true
		if err := f.storage.PaymentMethods().Update(ctx, method); err != nil {
			return fmt.Errorf("updating payment method: %w", err)
		}
		return nil
	})
}

// ListPaymentMethods paginates a customer's payment methods.
func (f *Facade) ListPaymentMethods(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.PaymentMethod], error) {
	return f.storage.PaymentMethods().ListByCustomer(ctx, customerID, limit, offset)
}

// GetDefaultPaymentMethod resolves a customer's default saved payment
// method.
func (f *Facade) GetDefaultPaymentMethod(ctx context.Context, customerID uuid.UUID) (*entities.PaymentMethod, error) {
	return f.defaultPaymentMethod(ctx, customerID)
}

// DeletePaymentMethod removes a customer's payment method. The current
// default cannot be deleted — the caller must set a new default first.
func (f *Facade) DeletePaymentMethod(ctx context.Context, customerID, paymentMethodID uuid.UUID) error {
	method, err := f.storage.PaymentMethods().GetByID(ctx, paymentMethodID)
	if err != nil {
		return fmt.Errorf("fetching payment method: %w", err)
	}
	if method.CustomerID != customerID {
		return qzerrors.NewForbiddenError("payment method does not belong to customer")
	}
	if method.IsDefault {
		return qzerrors.NewForbiddenError("cannot delete the default payment method")
	}
	return f.storage.PaymentMethods().Delete(ctx, paymentMethodID)
}

// RefundPayment issues a provider refund for (part of) a payment and emits
// payment.refunded. amount of 0 means a full refund of the remaining
// unrefunded balance.
func (f *Facade) RefundPayment(ctx context.Context, paymentID uuid.UUID, amount int64, reason string) (*entities.Refund, error) {
	payment, err := f.storage.Payments().GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("fetching payment: %w", err)
	}
	if amount <= 0 {
		amount = payment.Amount - payment.RefundedAmount
	}

	p, err := f.providers.Get(payment.Provider)
	if err != nil {
		return nil, fmt.Errorf("resolving provider: %w", err)
	}
	idempotencyKey := fmt.Sprintf("refund:%s:%d", paymentID, amount)
	providerPaymentID := ""
	if payment.ProviderPaymentID != nil {
		providerPaymentID = *payment.ProviderPaymentID
	}
	out, err := p.Refund(ctx, provider.RefundInput{
		ProviderPaymentID: providerPaymentID,
		Amount:            amount,
		Reason:            reason,
		IdempotencyKey:     idempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("issuing refund: %w", err)
	}

	refund := &entities.Refund{
		PaymentID:        paymentID,
		Amount:           amount,
		Currency:         payment.Currency,
		Reason:           &reason,
		Status:           entities.RefundStatus(out.Status),
		ProviderRefundID: &out.ProviderRefundID,
		IdempotencyKey:   &idempotencyKey,
	}
	if err := f.storage.Refunds().Create(ctx, refund); err != nil {
		return nil, fmt.Errorf("recording refund: %w", err)
	}

	payment.RefundedAmount += amount
	if err := f.storage.Payments().Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("updating payment: %w", err)
	}

	f.emitter.Emit(Event{
		Type:           EventPaymentRefunded,
		SubscriptionID: payment.SubscriptionID,
		CustomerID:     &payment.CustomerID,
		Timestamp:      f.clock.Now(),
		Data: map[string]interface{}{
			"payment_id": paymentID,
			"refund_id":  refund.ID,
			"amount":     amount,
		},
	})
	return refund, nil
}
