package webhook

import (
	"context"
	"time"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/provider"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	"github.com/22smeargle/qzpay/pkg/clock"
)

// Processor ties per-provider signature verification, idempotent
// persistence, and handler dispatch together for all of a deployment's
// webhook traffic. A single Processor serves every configured provider —
// it resolves the adapter to verify against from the inbound delivery's
// own provider name, it never assumes one global scheme.
type Processor struct {
	providers *provider.Registry
	events    repositories.WebhookEventRepository
	registry  *Registry
	clock     clock.Clock
}

// NewProcessor builds a Processor dispatching across every adapter
// registered in providers.
func NewProcessor(providers *provider.Registry, events repositories.WebhookEventRepository, registry *Registry, c clock.Clock) *Processor {
	if c == nil {
		c = clock.New()
	}
	return &Processor{
		providers: providers,
		events:    events,
		registry:  registry,
		clock:     c,
	}
}

// Registry exposes the event-type dispatcher so callers can register
// handlers before traffic starts flowing.
func (p *Processor) Registry() *Registry { return p.registry }

// Process verifies, deduplicates, persists, and dispatches a single inbound
// delivery for the named provider. A duplicate ProviderEventID
// short-circuits straight to the stored result without re-invoking any
// handler. providerName selects which adapter's VerifyWebhook checks the
// signature — a Stripe delivery is never checked against the MercadoPago
// scheme or vice versa.
func (p *Processor) Process(ctx context.Context, providerName string, body []byte, signatureHeader string, livemode bool) (DispatchResult, error) {
	adapter, err := p.providers.Get(providerName)
	if err != nil {
		return DispatchResult{}, err
	}
	resolvedName := adapter.Name()

	now := p.clock.Now()
	verified, err := adapter.VerifyWebhook(ctx, body, signatureHeader, now)
	if err != nil {
		return DispatchResult{}, err
	}
	event := &RawEvent{ID: verified.ProviderEventID, Type: verified.Type, Data: verified.Raw}

	if existing, err := p.events.GetByProviderEventID(ctx, resolvedName, event.ID); err == nil && existing != nil {
		result := DispatchResult{Processed: existing.Status == entities.WebhookEventStatusProcessed}
		if existing.ProcessingError != nil {
			result.Error = *existing.ProcessingError
		}
		return result, nil
	}

	record := &entities.WebhookEvent{
		Provider:        resolvedName,
		ProviderEventID: event.ID,
		Type:            event.Type,
		Status:          entities.WebhookEventStatusReceived,
		RawPayload:      string(body),
		Attempts:        1,
		ReceivedAt:      now,
		Livemode:        livemode,
	}
	if err := p.events.Create(ctx, record); err != nil {
		return DispatchResult{}, err
	}

	result := p.registry.Dispatch(ctx, event)
	p.finalize(ctx, record, result, now)
	return result, nil
}

func (p *Processor) finalize(ctx context.Context, record *entities.WebhookEvent, result DispatchResult, now time.Time) {
	if result.Processed {
		record.Status = entities.WebhookEventStatusProcessed
		record.ProcessedAt = &now
	} else if result.Error == "No handler registered" {
		record.Status = entities.WebhookEventStatusProcessed
		record.ProcessedAt = &now
	} else {
		record.Status = entities.WebhookEventStatusDeadLettered
		errCopy := result.Error
		record.ProcessingError = &errCopy
	}
	// An error persisting the final status is ignored: it is neither
	// returned to the caller nor retried.
	_ = p.events.Update(ctx, record)
}
