package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/lifecycle"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/provider"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
)

// processPaymentViaProvider adapts the lifecycle engine's ProcessPaymentFunc
// contract onto a single Provider adapter: charge, persist a Payment row,
// emit payment.succeeded/failed on the façade's bus.
func (f *Facade) processPaymentViaProvider(p provider.Provider) lifecycle.ProcessPaymentFunc {
	return func(ctx context.Context, in lifecycle.PaymentInput) (*lifecycle.PaymentResult, error) {
		pm, err := f.storage.PaymentMethods().GetByID(ctx, in.PaymentMethodID)
		if err != nil {
			return nil, fmt.Errorf("resolving payment method: %w", err)
		}

		idempotencyKey := fmt.Sprintf("%s:%s:%s", in.SubscriptionID, in.Type, f.clock.Now().Format("2006-01-02"))
		out, err := p.Charge(ctx, provider.ChargeInput{
			ProviderPaymentMethodID: pm.ProviderPaymentMethodID,
			Amount:                  in.Amount,
			Currency:                in.Currency,
			Description:             string(in.Type),
			IdempotencyKey:          idempotencyKey,
		})
		if err != nil {
			return &lifecycle.PaymentResult{Success: false, Error: err.Error()}, nil
		}

		payment := &entities.Payment{
			CustomerID:        in.CustomerID,
			SubscriptionID:    &in.SubscriptionID,
			Amount:            in.Amount,
			Currency:          in.Currency,
			Provider:          p.Name(),
			ProviderPaymentID: &out.ProviderPaymentID,
			PaymentMethodID:   &in.PaymentMethodID,
			IdempotencyKey:    &idempotencyKey,
			Livemode:          f.cfg.Livemode,
		}

		succeeded := out.Status == "succeeded"
		if succeeded {
			payment.Status = entities.PaymentStatusSucceeded
		} else {
			payment.Status = entities.PaymentStatusFailed
			payment.FailureCode = &out.FailureCode
			payment.FailureMessage = &out.FailureMessage
		}
		if err := f.storage.Payments().Create(ctx, payment); err != nil {
			return nil, fmt.Errorf("recording payment: %w", err)
		}

		evtType := EventPaymentFailed
		if succeeded {
			evtType = EventPaymentSucceeded
		}
		f.emitter.Emit(Event{
			Type:           evtType,
			SubscriptionID: &in.SubscriptionID,
			CustomerID:     &in.CustomerID,
			Timestamp:      f.clock.Now(),
			Data: map[string]interface{}{
				"payment_id": payment.ID,
				"amount":     in.Amount,
				"currency":   in.Currency,
			},
		})

		if !succeeded {
			return &lifecycle.PaymentResult{Success: false, PaymentID: &payment.ID, Error: out.FailureMessage}, nil
		}
		return &lifecycle.PaymentResult{Success: true, PaymentID: &payment.ID}, nil
	}
}

// defaultPaymentMethod resolves a customer's default saved payment method,
// returning nil (not an error) when none is on file.
func (f *Facade) defaultPaymentMethod(ctx context.Context, customerID uuid.UUID) (*entities.PaymentMethod, error) {
	method, err := f.storage.PaymentMethods().GetDefaultForCustomer(ctx, customerID)
	if err != nil && qzerrors.GetErrorType(err) == qzerrors.ErrorTypeNotFound {
		return nil, nil
	}
	return method, err
}
