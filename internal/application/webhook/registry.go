package webhook

import (
	"context"
)

// Handler processes a single parsed webhook event.
type Handler func(ctx context.Context, event *RawEvent) error

// DispatchResult is the outcome of dispatching a single event.
type DispatchResult struct {
	Processed bool
	Error     string
}

// Registry maps event type to Handler. The zero value is usable.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// On registers (or replaces) the handler for an event type.
func (r *Registry) On(eventType string, h Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
	r.handlers[eventType] = h
}

// Dispatch looks up and awaits the handler for event.Type. A missing
// handler is reported as unprocessed but is not an error the HTTP layer
// should reject the delivery for — the caller still acknowledges receipt
// so the provider doesn't retry-storm an event type this deployment
// doesn't care about.
func (r *Registry) Dispatch(ctx context.Context, event *RawEvent) DispatchResult {
	h, ok := r.handlers[event.Type]
	if !ok {
		return DispatchResult{Processed: false, Error: "No handler registered"}
	}
	if err := h(ctx, event); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
		return DispatchResult{Processed: false, Error: msg}
	}
	return DispatchResult{Processed: true}
}
