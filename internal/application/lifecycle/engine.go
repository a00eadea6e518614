// Package lifecycle implements the subscription lifecycle engine: renewal,
// trial conversion, payment retry, and non-payment cancellation. Each phase
// scans its candidate subscriptions, processes them one at a time inside a
// row-locked transaction, and reports a per-phase tally plus per-subscription
// detail — a single subscription's failure never aborts the batch.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	"github.com/22smeargle/qzpay/pkg/clock"
)

// Detail is the per-subscription outcome of a phase.
type Detail struct {
	SubscriptionID uuid.UUID
	Succeeded      bool
	Error          string
}

// PhaseResult tallies a single phase's run.
type PhaseResult struct {
	Processed int
	Succeeded int
	Failed    int
	Details   []Detail
}

func (r *PhaseResult) record(id uuid.UUID, err error) {
	r.Processed++
	if err == nil {
		r.Succeeded++
		r.Details = append(r.Details, Detail{SubscriptionID: id, Succeeded: true})
		return
	}
	r.Failed++
	r.Details = append(r.Details, Detail{SubscriptionID: id, Succeeded: false, Error: err.Error()})
}

// Report is the combined result of a single engine invocation.
type Report struct {
	Renewal         PhaseResult
	TrialConversion PhaseResult
	Retry           PhaseResult
	Cancellation    PhaseResult
}

// Engine runs the four lifecycle phases against a Storage port.
type Engine struct {
	storage repositories.Storage
	cfg     Config
	clock   clock.Clock
}

// New builds a lifecycle Engine.
func New(storage repositories.Storage, cfg Config, c clock.Clock) *Engine {
	if c == nil {
		c = clock.New()
	}
	return &Engine{storage: storage, cfg: cfg, clock: c}
}

// Run executes all four phases once and returns their combined report.
// Only systemic failures (the storage layer itself being unavailable) are
// returned as an error; individual subscription failures are recorded in
// the Report instead, per the engine's propagation policy.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	now := e.clock.Now()
	report := &Report{}

	var systemic *multierror.Error

	if r, err := e.runRenewalPhase(ctx, now); err != nil {
		systemic = multierror.Append(systemic, fmt.Errorf("renewal phase: %w", err))
	} else {
		report.Renewal = *r
	}

	if r, err := e.runTrialConversionPhase(ctx, now); err != nil {
		systemic = multierror.Append(systemic, fmt.Errorf("trial conversion phase: %w", err))
	} else {
		report.TrialConversion = *r
	}

	if r, err := e.runRetryPhase(ctx, now); err != nil {
		systemic = multierror.Append(systemic, fmt.Errorf("retry phase: %w", err))
	} else {
		report.Retry = *r
	}

	if r, err := e.runCancellationPhase(ctx, now); err != nil {
		systemic = multierror.Append(systemic, fmt.Errorf("cancellation phase: %w", err))
	} else {
		report.Cancellation = *r
	}

	if systemic != nil {
		return report, systemic.ErrorOrNil()
	}
	return report, nil
}

// resolvePrice finds the Price matching the subscription's interval and
// interval count, falling back to the plan's first active price.
func (e *Engine) resolvePrice(ctx context.Context, sub *entities.Subscription) (*entities.Price, error) {
	prices, err := e.storage.Prices().ListActiveByPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no active price for plan %s", sub.PlanID)
	}
	for _, p := range prices {
		if p.BillingInterval == sub.Interval && p.IntervalCount == sub.IntervalCount {
			return p, nil
		}
	}
	return prices[0], nil
}

func strPtr(s string) *string { return &s }

// tallyErr turns a phase-one-item outcome into the error PhaseResult.record
// expects: systemic transaction errors always win (the write never
// committed), otherwise a non-empty business failure message is wrapped
// into an error purely for tallying — the failure state it describes was
// already committed by the transaction that produced it.
func tallyErr(businessFailure string, txErr error) error {
	if txErr != nil {
		return txErr
	}
	if businessFailure != "" {
		return errors.New(businessFailure)
	}
	return nil
}
