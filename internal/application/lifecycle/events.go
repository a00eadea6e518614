package lifecycle

import (
	"time"

	"github.com/google/uuid"
)

// Event names the engine emits. Host code subscribes via Config.OnEvent.
const (
	EventRenewed               = "subscription.renewed"
	EventRenewalFailed         = "subscription.renewal_failed"
	EventEnteredGracePeriod    = "subscription.entered_grace_period"
	EventTrialConverted        = "subscription.trial_converted"
	EventTrialConversionFailed = "subscription.trial_conversion_failed"
	EventRetrySucceeded        = "subscription.retry_succeeded"
	EventRetryScheduled        = "subscription.retry_scheduled"
	EventRetryFailed           = "subscription.retry_failed"
	EventCanceledNonpayment    = "subscription.canceled_nonpayment"
)

// Event is a single lifecycle notification. Data carries event-specific
// fields (nextRetryInterval, maxRetriesReached, ...) as described per-phase
// in the engine's documentation.
type Event struct {
	Type           string
	SubscriptionID uuid.UUID
	OccurredAt     time.Time
	Data           map[string]interface{}
}

func emit(onEvent func(Event), evtType string, subscriptionID uuid.UUID, now time.Time, data map[string]interface{}) {
	if onEvent == nil {
		return
	}
	defer func() { _ = recover() }()
	onEvent(Event{Type: evtType, SubscriptionID: subscriptionID, OccurredAt: now, Data: data})
}
