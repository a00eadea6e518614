package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// runCancellationPhase cancels past_due subscriptions whose grace period
// has fully elapsed and whose retries are exhausted, per §4.6.4.
func (e *Engine) runCancellationPhase(ctx context.Context, now time.Time) (*PhaseResult, error) {
	result := &PhaseResult{}
	candidates, err := e.storage.Subscriptions().ListPastGracePeriod(ctx, now, e.cfg.batchSize())
	if err != nil {
		return nil, err
	}
	for _, sub := range candidates {
		err := e.storage.Transaction(ctx, func(ctx context.Context) error {
			return e.cancelOne(ctx, sub.ID, now)
		})
		if errors.Is(err, errNotEligible) {
			continue
		}
		result.record(sub.ID, err)
	}
	return result, nil
}

var errNotEligible = errors.New("lifecycle: not eligible for this phase")

func (e *Engine) cancelOne(ctx context.Context, id uuid.UUID, now time.Time) error {
	sub, err := e.storage.Subscriptions().LockForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status != entities.SubscriptionStatusPastDue || sub.GracePeriodStartedAt == nil {
		return errNotEligible
	}
	graceDeadline := sub.GracePeriodStartedAt.AddDate(0, 0, e.cfg.GracePeriodDays)
	if now.Before(graceDeadline) {
		return errNotEligible
	}
	if sub.RetryCount < len(e.cfg.RetryIntervals) {
		return errNotEligible
	}

	sub.Status = entities.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	sub.CancelReason = strPtr("Payment failed - grace period expired")
	sub.GracePeriodEndedAt = &now
	sub.Version++
	if err := e.storage.Subscriptions().Update(ctx, sub); err != nil {
		return err
	}

	emit(e.cfg.OnEvent, EventCanceledNonpayment, sub.ID, now, nil)
	return nil
}
