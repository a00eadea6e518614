// Package billing composes the pure engines and storage/provider ports
// into the single façade the host embeds: grouped CRUD + domain operations
// per entity, a lifecycle-driven background engine, webhook ingestion, and
// an event bus every subscriber of any of those surfaces can listen on.
package billing

import (
	"context"
	"time"

	"github.com/22smeargle/qzpay/internal/application/health"
	"github.com/22smeargle/qzpay/internal/application/jobs"
	"github.com/22smeargle/qzpay/internal/application/lifecycle"
	"github.com/22smeargle/qzpay/internal/application/webhook"
	"github.com/22smeargle/qzpay/internal/domain/provider"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	"github.com/22smeargle/qzpay/pkg/clock"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// Config carries the host-supplied, per-deployment settings enumerated in
// the façade's external-interfaces contract. Webhook signature/timestamp
// verification is per-provider (each adapter carries its own secret and
// tolerance), so Config has no webhook-secret knob of its own — only
// DefaultProvider, which picks the adapter the lifecycle engine and health
// probe talk to.
type Config struct {
	GracePeriodDays     int
	RetryIntervals      []int
	TrialConversionDays int
	DefaultCurrency     string
	Livemode            bool
	DefaultProvider     string
	LifecycleBatchSize  int
}

// Facade is the engine's single embeddable entry point.
type Facade struct {
	storage   repositories.Storage
	providers *provider.Registry
	cfg       Config
	clock     clock.Clock
	emitter   *Emitter

	lifecycleEngine *lifecycle.Engine
	webhookProc     *webhook.Processor
	scheduler       *jobs.Scheduler
	cache           EntitlementCache
}

// New builds a Facade wired against storage and the provider registry. c is
// an optional injected clock (RealClock when nil), used only by tests.
// cache is an optional cache-aside layer for entitlement/limit reads
// (nil disables caching entirely, falling through to storage every time).
func New(storage repositories.Storage, providers *provider.Registry, cfg Config, c clock.Clock, cache EntitlementCache) *Facade {
	if c == nil {
		c = clock.RealClock{}
	}
	emitter := NewEmitter()

	f := &Facade{
		storage:   storage,
		providers: providers,
		cfg:       cfg,
		clock:     c,
		emitter:   emitter,
		cache:     cache,
	}

	defaultProvider, _ := providers.Get(cfg.DefaultProvider)

	lifecycleCfg := lifecycle.Config{
		GracePeriodDays:     cfg.GracePeriodDays,
		RetryIntervals:      cfg.RetryIntervals,
		TrialConversionDays: cfg.TrialConversionDays,
		BatchSize:           cfg.LifecycleBatchSize,
		OnEvent:             f.republishLifecycleEvent,
	}
	if defaultProvider != nil {
		lifecycleCfg.ProcessPayment = f.processPaymentViaProvider(defaultProvider)
		lifecycleCfg.GetDefaultPaymentMethod = f.defaultPaymentMethod
	}
	f.lifecycleEngine = lifecycle.New(storage, lifecycleCfg, c)

	registry := webhook.NewRegistry()
	f.webhookProc = webhook.NewProcessor(providers, storage.WebhookEvents(), registry, c)

	scheduler, err := jobs.NewScheduler(storage, jobs.DefaultSchedules)
	if err != nil {
		logger.Error("Failed to build job scheduler", err, nil)
	}
	f.scheduler = scheduler

	return f
}

// Events returns the façade's event bus for host subscriptions via
// On/Once/Unsubscribe.
func (f *Facade) Events() *Emitter { return f.emitter }

// WebhookRegistry exposes the event-type dispatcher so the host can
// register its own handlers before wiring the HTTP webhook endpoint.
func (f *Facade) WebhookRegistry() *webhook.Registry { return f.webhookProc.Registry() }

// ProcessWebhook verifies, parses, and dispatches a single inbound webhook
// delivery against the named provider's own adapter — a Stripe delivery is
// verified with stripe-go's signature scheme and secret, a MercadoPago one
// with its own, never against one hardcoded global scheme — emitting
// EventWebhookReceived on the façade's own bus in addition to the
// type-specific handler dispatch.
func (f *Facade) ProcessWebhook(ctx context.Context, providerName string, body []byte, signatureHeader string, livemode bool) (webhook.DispatchResult, error) {
	result, err := f.webhookProc.Process(ctx, providerName, body, signatureHeader, livemode)
	f.emitter.Emit(Event{Type: EventWebhookReceived, Timestamp: f.clock.Now(), Data: map[string]interface{}{
		"provider":  providerName,
		"processed": result.Processed,
		"livemode":  livemode,
	}})
	return result, err
}

// RunLifecycleTick drives one pass of the renewal/trial-conversion/retry/
// cancellation phases. The host schedules this on its own cadence (e.g. an
// hourly cron tick, or a job dequeued via the jobs package).
func (f *Facade) RunLifecycleTick(ctx context.Context) (*lifecycle.Report, error) {
	return f.lifecycleEngine.Run(ctx)
}

// CheckHealth runs the storage and payment-provider probes.
func (f *Facade) CheckHealth(ctx context.Context, timeout time.Duration) health.Report {
	var p provider.Provider
	if resolved, err := f.providers.Get(f.cfg.DefaultProvider); err == nil {
		p = resolved
	}
	return health.Check(ctx, f.storage, p, timeout)
}

// StartScheduler begins the background cron scheduler driving the default
// recurring job schedule (renewals, retries, payouts, cleanup, ...).
func (f *Facade) StartScheduler() {
	if f.scheduler != nil {
		f.scheduler.Start()
	}
}

// Teardown releases every event subscriber and stops the background
// scheduler. Per the façade's teardown contract, all subscriptions
// (event-bus and cron) are released; in-flight lifecycle ticks already
// started are allowed to finish.
func (f *Facade) Teardown() {
	if f.scheduler != nil {
		<-f.scheduler.Stop().Done()
	}
	f.emitter.Teardown()
}

func (f *Facade) republishLifecycleEvent(evt lifecycle.Event) {
	subID := evt.SubscriptionID
	f.emitter.Emit(Event{
		Type:           evt.Type,
		SubscriptionID: &subID,
		Data:           evt.Data,
		Timestamp:      evt.OccurredAt,
	})
}
