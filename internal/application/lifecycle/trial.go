package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// runTrialConversionPhase converts trialing subscriptions into active,
// paid ones once their trial notice window has elapsed, per §4.6.2.
func (e *Engine) runTrialConversionPhase(ctx context.Context, now time.Time) (*PhaseResult, error) {
	result := &PhaseResult{}
	due, err := e.storage.Subscriptions().ListDueForTrialConversion(ctx, now, e.cfg.batchSize())
	if err != nil {
		return nil, err
	}
	for _, sub := range due {
		var failure string
		err := e.storage.Transaction(ctx, func(ctx context.Context) error {
			f, txErr := e.convertOne(ctx, sub.ID, now)
			failure = f
			return txErr
		})
		result.record(sub.ID, tallyErr(failure, err))
	}
	return result, nil
}

// convertOne returns (failureMessage, err) with the same split as renewOne:
// err rolls back the transaction, failureMessage reports a committed
// cancellation-on-failed-conversion write to the phase tally.
func (e *Engine) convertOne(ctx context.Context, id uuid.UUID, now time.Time) (string, error) {
	sub, err := e.storage.Subscriptions().LockForUpdate(ctx, id)
	if err != nil {
		return "", err
	}
	if sub.Status != entities.SubscriptionStatusTrialing || sub.TrialEnd == nil {
		return "", nil
	}
	noticeWindow := time.Duration(e.cfg.TrialConversionDays) * 24 * time.Hour
	if sub.TrialEnd.Sub(now) > noticeWindow {
		return "", nil
	}

	method, err := e.cfg.GetDefaultPaymentMethod(ctx, sub.CustomerID)
	if err != nil {
		return "", err
	}
	if method == nil {
		return e.failTrialConversion(ctx, sub, now, "no default payment method on file")
	}

	price, err := e.resolvePrice(ctx, sub)
	if err != nil {
		return "", err
	}
	amount := price.UnitAmount * sub.Quantity

	paymentResult, err := e.cfg.ProcessPayment(ctx, PaymentInput{
		CustomerID:      sub.CustomerID,
		SubscriptionID:  sub.ID,
		PaymentMethodID: method.ID,
		Amount:          amount,
		Currency:        price.Currency,
		Type:            PaymentTypeTrialConversion,
	})
	if err != nil {
		return e.failTrialConversion(ctx, sub, now, err.Error())
	}
	if !paymentResult.Success {
		return e.failTrialConversion(ctx, sub, now, paymentResult.Error)
	}

	newEnd := AddInterval(now, sub.Interval, sub.IntervalCount)
	sub.Status = entities.SubscriptionStatusActive
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = newEnd
	sub.TrialConvertedAt = &now
	sub.FirstPaymentID = paymentResult.PaymentID
	sub.LastPaymentID = paymentResult.PaymentID
	sub.Version++
	if err := e.storage.Subscriptions().Update(ctx, sub); err != nil {
		return "", err
	}

	invoice := &entities.Invoice{
		CustomerID:     sub.CustomerID,
		SubscriptionID: &sub.ID,
		Status:         entities.InvoiceStatusPaid,
		Currency:       price.Currency,
		Subtotal:       amount,
		Total:          amount,
		AmountPaid:     amount,
		PeriodStart:    &sub.CurrentPeriodStart,
		PeriodEnd:      &newEnd,
		PaidAt:         &now,
	}
	if err := e.storage.Invoices().Create(ctx, invoice); err != nil {
		return "", err
	}
	line := &entities.InvoiceLine{
		InvoiceID:   invoice.ID,
		Description: fmt.Sprintf("Trial conversion - %s", sub.PlanID),
		Quantity:    sub.Quantity,
		UnitAmount:  price.UnitAmount,
		Amount:      amount,
		PeriodStart: &sub.CurrentPeriodStart,
		PeriodEnd:   &newEnd,
	}
	if err := e.storage.Invoices().CreateLines(ctx, []*entities.InvoiceLine{line}); err != nil {
		return "", err
	}

	emit(e.cfg.OnEvent, EventTrialConverted, sub.ID, now, map[string]interface{}{
		"invoiceId": invoice.ID,
		"paymentId": paymentResult.PaymentID,
	})
	return "", nil
}

// failTrialConversion records the cancellation and returns it as a business
// failure message — the caller's transaction must commit this write even
// though the conversion itself failed.
func (e *Engine) failTrialConversion(ctx context.Context, sub *entities.Subscription, now time.Time, message string) (string, error) {
	sub.Status = entities.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	sub.CancelReason = strPtr("Trial conversion payment failed")
	sub.Version++
	if err := e.storage.Subscriptions().Update(ctx, sub); err != nil {
		return "", err
	}
	emit(e.cfg.OnEvent, EventTrialConversionFailed, sub.ID, now, map[string]interface{}{"error": message})
	return fmt.Sprintf("trial conversion failed: %s", message), nil
}
