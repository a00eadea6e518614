package billing

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the façade itself, in addition to the lifecycle
// engine's own event types (internal/application/lifecycle/events.go),
// which the façade re-publishes verbatim on the same bus.
const (
	EventCustomerCreated  = "customer.created"
	EventCustomerUpdated  = "customer.updated"
	EventCustomerDeleted  = "customer.deleted"
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
	EventPaymentRefunded  = "payment.refunded"
	EventInvoicePaid      = "invoice.paid"
	EventWebhookReceived  = "webhook.received"
)

// Event is the envelope every subscriber receives, matching the shape
// carried by the lifecycle engine's own events so handlers don't need to
// special-case the source.
type Event struct {
	Type           string                 `json:"type"`
	SubscriptionID *uuid.UUID             `json:"subscription_id,omitempty"`
	CustomerID     *uuid.UUID             `json:"customer_id,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

// Handler receives emitted events.
type Handler func(Event)

// Unsubscribe removes a previously registered handler.
type Unsubscribe func()

// Emitter is a minimal in-process pub/sub bus keyed by event type,
// supporting persistent (on) and single-fire (once) subscriptions. It is
// the façade's only concurrency primitive — handler dispatch holds the
// lock only long enough to snapshot the subscriber list.
type Emitter struct {
	mu       sync.Mutex
	handlers map[string]map[int]Handler
	nextID   int
	closed   bool
}

// NewEmitter builds an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[string]map[int]Handler)}
}

// On registers a handler for every future event of the given type, until
// Unsubscribe is called.
func (e *Emitter) On(eventType string, h Handler) Unsubscribe {
	return e.subscribe(eventType, h, false)
}

// Once registers a handler that fires at most once, then auto-unsubscribes.
func (e *Emitter) Once(eventType string, h Handler) Unsubscribe {
	return e.subscribe(eventType, h, true)
}

func (e *Emitter) subscribe(eventType string, h Handler, once bool) Unsubscribe {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers[eventType] == nil {
		e.handlers[eventType] = make(map[int]Handler)
	}
	id := e.nextID
	e.nextID++
	if once {
		e.handlers[eventType][id] = func(evt Event) {
			h(evt)
			e.unsubscribe(eventType, id)
		}
	} else {
		e.handlers[eventType][id] = h
	}
	return func() { e.unsubscribe(eventType, id) }
}

func (e *Emitter) unsubscribe(eventType string, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers[eventType], id)
}

// Emit dispatches an event to every current subscriber of its type.
// Subscriber list is snapshotted under lock so a handler unsubscribing
// itself (the `once` path) never deadlocks or skips a sibling handler.
func (e *Emitter) Emit(evt Event) {
	e.mu.Lock()
	closed := e.closed
	var snapshot []Handler
	if !closed {
		for _, h := range e.handlers[evt.Type] {
			snapshot = append(snapshot, h)
		}
	}
	e.mu.Unlock()
	if closed {
		return
	}
	for _, h := range snapshot {
		h(evt)
	}
}

// Teardown releases every subscriber and makes subsequent Emit calls a
// no-op, per the façade's teardown contract.
func (e *Emitter) Teardown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = make(map[string]map[int]Handler)
	e.closed = true
}
