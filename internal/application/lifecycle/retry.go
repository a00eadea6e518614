package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// runRetryPhase attempts to recover past_due subscriptions whose next
// scheduled retry is due, per §4.6.3.
func (e *Engine) runRetryPhase(ctx context.Context, now time.Time) (*PhaseResult, error) {
	result := &PhaseResult{}
	due, err := e.storage.Subscriptions().ListDueForRetry(ctx, now, e.cfg.batchSize())
	if err != nil {
		return nil, err
	}
	for _, sub := range due {
		var failure string
		err := e.storage.Transaction(ctx, func(ctx context.Context) error {
			f, txErr := e.retryOne(ctx, sub.ID, now)
			failure = f
			return txErr
		})
		result.record(sub.ID, tallyErr(failure, err))
	}
	return result, nil
}

// nextRetryDue computes whether a retry is eligible right now, per the
// lastRetryAt/gracePeriodStartedAt/retryIntervals formula in §4.6.3.
func (e *Engine) nextRetryDue(sub *entities.Subscription, now time.Time) bool {
	if sub.Status != entities.SubscriptionStatusPastDue || sub.GracePeriodStartedAt == nil {
		return false
	}
	if sub.RetryCount < 0 || sub.RetryCount >= len(e.cfg.RetryIntervals) {
		return false
	}
	lastRetryAt := sub.GracePeriodStartedAt
	if sub.LastRetryAt != nil {
		lastRetryAt = sub.LastRetryAt
	}
	interval := e.cfg.RetryIntervals[sub.RetryCount]
	nextRetryAt := lastRetryAt.AddDate(0, 0, interval)
	return !now.Before(nextRetryAt)
}

// retryOne returns (failureMessage, err) with the same split as renewOne:
// err rolls back the transaction, failureMessage reports a committed
// retryCount-increment/grace-period write to the phase tally.
func (e *Engine) retryOne(ctx context.Context, id uuid.UUID, now time.Time) (string, error) {
	sub, err := e.storage.Subscriptions().LockForUpdate(ctx, id)
	if err != nil {
		return "", err
	}
	if !e.nextRetryDue(sub, now) {
		return "", nil
	}

	method, err := e.cfg.GetDefaultPaymentMethod(ctx, sub.CustomerID)
	if err != nil {
		return "", err
	}
	if method == nil {
		return e.failRetry(ctx, sub, now, "no default payment method on file")
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
		Type:            PaymentTypeRetry,
	})
	if err != nil {
		return e.failRetry(ctx, sub, now, err.Error())
	}
	if !paymentResult.Success {
		return e.failRetry(ctx, sub, now, paymentResult.Error)
	}

	oldEnd := sub.CurrentPeriodEnd
	newEnd := AddInterval(oldEnd, sub.Interval, sub.IntervalCount)

	sub.Status = entities.SubscriptionStatusActive
	sub.CurrentPeriodStart = oldEnd
	sub.CurrentPeriodEnd = newEnd
	sub.GracePeriodStartedAt = nil
	sub.GracePeriodEndedAt = nil
	sub.RetryCount = 0
	sub.LastRetryAt = nil
	sub.LastRetryError = nil
	sub.RecoveredAt = &now
	sub.RecoveryPaymentID = paymentResult.PaymentID
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
		PeriodStart:    &oldEnd,
		PeriodEnd:      &newEnd,
		PaidAt:         &now,
	}
	if err := e.storage.Invoices().Create(ctx, invoice); err != nil {
		return "", err
	}
	line := &entities.InvoiceLine{
		InvoiceID:   invoice.ID,
		Description: fmt.Sprintf("Subscription renewal (recovered) - %s", sub.PlanID),
		Quantity:    sub.Quantity,
		UnitAmount:  price.UnitAmount,
		Amount:      amount,
		PeriodStart: &oldEnd,
		PeriodEnd:   &newEnd,
	}
	if err := e.storage.Invoices().CreateLines(ctx, []*entities.InvoiceLine{line}); err != nil {
		return "", err
	}

	emit(e.cfg.OnEvent, EventRetrySucceeded, sub.ID, now, map[string]interface{}{
		"invoiceId": invoice.ID,
		"paymentId": paymentResult.PaymentID,
	})
	return "", nil
}

// failRetry increments the retry count and records the grace-period state,
// returning it as a business failure message — the caller's transaction
// must commit this write even though the retry itself failed.
func (e *Engine) failRetry(ctx context.Context, sub *entities.Subscription, now time.Time, message string) (string, error) {
	sub.RetryCount++
	sub.LastRetryAt = &now
	sub.LastRetryError = strPtr(message)
	sub.Version++
	if err := e.storage.Subscriptions().Update(ctx, sub); err != nil {
		return "", err
	}
	if sub.RetryCount < len(e.cfg.RetryIntervals) {
		emit(e.cfg.OnEvent, EventRetryScheduled, sub.ID, now, map[string]interface{}{
			"nextRetryInterval": e.cfg.RetryIntervals[sub.RetryCount],
			"error":             message,
		})
	} else {
		emit(e.cfg.OnEvent, EventRetryFailed, sub.ID, now, map[string]interface{}{
			"maxRetriesReached": true,
			"error":             message,
		})
	}
	return fmt.Sprintf("retry failed: %s", message), nil
}
