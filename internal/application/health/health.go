// Package health implements the engine's self-check probes, generalized
// from the teacher's basic/database health endpoints into a provider-
// agnostic, timeout-racing probe model.
package health

import (
	"context"
	"time"

	"github.com/22smeargle/qzpay/internal/domain/provider"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
)

// Status is a probe or aggregate health verdict.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTimeout is the per-probe deadline when none is configured.
const DefaultTimeout = 5 * time.Second

// DefaultStorageDegradedThreshold and DefaultPaymentDegradedThreshold are
// the response-time thresholds past which a probe reports degraded instead
// of healthy.
const (
	DefaultStorageDegradedThreshold = 2 * time.Second
	DefaultPaymentDegradedThreshold = 3 * time.Second
)

// Result is one probe's outcome.
type Result struct {
	Name           string                 `json:"name"`
	Status         Status                 `json:"status"`
	ResponseTimeMs int64                  `json:"response_time_ms"`
	Error          string                 `json:"error,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
}

// Report is the aggregate of every probe run.
type Report struct {
	Status Status   `json:"status"`
	Probes []Result `json:"probes"`
}

// worst returns the more severe of two statuses (unhealthy > degraded > healthy).
func worst(a, b Status) Status {
	rank := map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// run races fn against timeout, classifying the outcome by elapsed time
// against degradedAt, and by error into unhealthy unless isHealthyErr says
// the error itself indicates a reachable backend (e.g. a "not found" probe
// response from the payment provider).
func run(ctx context.Context, name string, timeout, degradedAt time.Duration, isHealthyErr func(error) bool, fn func(ctx context.Context) error) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		return Result{
			Name:           name,
			Status:         StatusUnhealthy,
			ResponseTimeMs: timeout.Milliseconds(),
			Error:          "probe timed out",
		}
	}
	elapsed := time.Since(start)

	if err != nil && (isHealthyErr == nil || !isHealthyErr(err)) {
		return Result{
			Name:           name,
			Status:         StatusUnhealthy,
			ResponseTimeMs: elapsed.Milliseconds(),
			Error:          err.Error(),
		}
	}

	status := StatusHealthy
	if elapsed > degradedAt {
		status = StatusDegraded
	}
	return Result{
		Name:           name,
		Status:         status,
		ResponseTimeMs: elapsed.Milliseconds(),
	}
}

// StorageProbe runs a trivial customers.list(limit=1) to confirm storage is
// reachable and responsive.
func StorageProbe(ctx context.Context, storage repositories.Storage, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return run(ctx, "storage", timeout, DefaultStorageDegradedThreshold, nil, func(ctx context.Context) error {
		_, err := storage.Customers().List(ctx, 1, 0)
		return err
	})
}

// PaymentProbe exercises the provider adapter's Ping, which attempts to
// retrieve a non-existent customer internally and treats a "not found"
// response as proof the API is reachable — only a genuine transport/auth
// failure surfaces here as an error.
func PaymentProbe(ctx context.Context, p provider.Provider, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return run(ctx, "payment_provider", timeout, DefaultPaymentDegradedThreshold, nil, func(ctx context.Context) error {
		return p.Ping(ctx)
	})
}

// Check runs every configured probe and aggregates into a Report whose
// overall status is the worst of its children.
func Check(ctx context.Context, storage repositories.Storage, p provider.Provider, timeout time.Duration) Report {
	results := []Result{StorageProbe(ctx, storage, timeout)}
	if p != nil {
		results = append(results, PaymentProbe(ctx, p, timeout))
	}

	overall := StatusHealthy
	for _, r := range results {
		overall = worst(overall, r.Status)
	}
	return Report{Status: overall, Probes: results}
}
