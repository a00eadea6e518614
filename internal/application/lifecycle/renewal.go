package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// runRenewalPhase advances every active, non-cancel-pending subscription
// whose current period has ended, per §4.6.1.
func (e *Engine) runRenewalPhase(ctx context.Context, now time.Time) (*PhaseResult, error) {
	result := &PhaseResult{}
	due, err := e.storage.Subscriptions().ListDueForRenewal(ctx, now, e.cfg.batchSize())
	if err != nil {
		return nil, err
	}
	for _, sub := range due {
		var failure string
		err := e.storage.Transaction(ctx, func(ctx context.Context) error {
			f, txErr := e.renewOne(ctx, sub.ID, now)
			failure = f
			return txErr
		})
		result.record(sub.ID, tallyErr(failure, err))
	}
	return result, nil
}

// renewOne returns (failureMessage, err): err is a systemic failure that
// must roll back the transaction (the committed state is untouched);
// failureMessage is a business-level decline whose past_due transition was
// already written and committed, and is reported to the phase tally by the
// caller once the transaction succeeds, never by returning an error from
// inside it — returning one here would roll back the very write that
// records the failure.
func (e *Engine) renewOne(ctx context.Context, id uuid.UUID, now time.Time) (string, error) {
	sub, err := e.storage.Subscriptions().LockForUpdate(ctx, id)
	if err != nil {
		return "", err
	}
	if sub.Status != entities.SubscriptionStatusActive || sub.CancelAtPeriodEnd || sub.CurrentPeriodEnd.After(now) {
		return "", nil
	}

	method, err := e.cfg.GetDefaultPaymentMethod(ctx, sub.CustomerID)
	if err != nil {
		return "", err
	}
	if method == nil {
		return e.failRenewal(ctx, sub, now, "no default payment method on file")
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
		Type:            PaymentTypeRenewal,
	})
	if err != nil {
		return e.failRenewal(ctx, sub, now, err.Error())
	}
	if !paymentResult.Success {
		return e.failRenewal(ctx, sub, now, paymentResult.Error)
	}

	oldEnd := sub.CurrentPeriodEnd
	newEnd := AddInterval(oldEnd, sub.Interval, sub.IntervalCount)

	sub.Status = entities.SubscriptionStatusActive
	sub.CurrentPeriodStart = oldEnd
	sub.CurrentPeriodEnd = newEnd
	sub.LastRenewalAt = &now
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
		Description: fmt.Sprintf("Subscription renewal - %s", sub.PlanID),
		Quantity:    sub.Quantity,
		UnitAmount:  price.UnitAmount,
		Amount:      amount,
		PeriodStart: &oldEnd,
		PeriodEnd:   &newEnd,
	}
	if err := e.storage.Invoices().CreateLines(ctx, []*entities.InvoiceLine{line}); err != nil {
		return "", err
	}

	emit(e.cfg.OnEvent, EventRenewed, sub.ID, now, map[string]interface{}{
		"invoiceId": invoice.ID,
		"amount":    amount,
	})
	return "", nil
}

// failRenewal records the past_due/grace-period transition and returns it as
// a business failure message, not an error — the caller's transaction must
// commit this write even though the renewal itself failed.
func (e *Engine) failRenewal(ctx context.Context, sub *entities.Subscription, now time.Time, message string) (string, error) {
	sub.Status = entities.SubscriptionStatusPastDue
	sub.GracePeriodStartedAt = &now
	sub.LastRenewalAttempt = &now
	sub.RenewalError = strPtr(message)
	sub.RetryCount = 0
	sub.Version++
	if err := e.storage.Subscriptions().Update(ctx, sub); err != nil {
		return "", err
	}
	emit(e.cfg.OnEvent, EventRenewalFailed, sub.ID, now, map[string]interface{}{"error": message})
	emit(e.cfg.OnEvent, EventEnteredGracePeriod, sub.ID, now, nil)
	return fmt.Sprintf("renewal failed: %s", message), nil
}
