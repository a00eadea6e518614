// Package metrics implements pure revenue/subscription metrics: MRR
// normalization, period-over-period breakdown, churn rate, and revenue
// totals. Every function is a deterministic reduction over caller-supplied
// snapshots — no storage access, no clock reads.
package metrics

import (
	"time"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// NormalizedMonthlyPrice converts a price's cadence into a monthly minor-
// unit amount, rounded to the nearest integer.
func NormalizedMonthlyPrice(unitAmount int64, interval entities.BillingInterval, intervalCount int) int64 {
	if intervalCount <= 0 {
		intervalCount = 1
	}
	switch interval {
	case entities.IntervalDay:
		return roundDiv(unitAmount*30, int64(intervalCount))
	case entities.IntervalWeek:
		return roundDiv(unitAmount*30, int64(intervalCount)*7)
	case entities.IntervalMonth:
		return roundDiv(unitAmount, int64(intervalCount))
	case entities.IntervalYear:
		return roundDiv(unitAmount, int64(intervalCount)*12)
	default:
		return 0
	}
}

func roundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	neg := (num < 0) != (den < 0)
	if num < 0 {
		num = -num
	}
	if den < 0 {
		den = -den
	}
	r := (num + den/2) / den
	if neg {
		r = -r
	}
	return r
}

// isRecurringActive reports whether status counts toward MRR.
func isRecurringActive(status entities.SubscriptionStatus) bool {
	return status == entities.SubscriptionStatusActive || status == entities.SubscriptionStatusTrialing
}

// SubscriptionMRR computes a single subscription's contribution to MRR.
// Non-{active,trialing} subscriptions contribute zero.
func SubscriptionMRR(status entities.SubscriptionStatus, normalizedMonthlyPrice int64, quantity int64) int64 {
	if !isRecurringActive(status) {
		return 0
	}
	return normalizedMonthlyPrice * quantity
}

// SubscriptionSnapshot is the minimal per-subscription state a metrics
// snapshot needs: its id, status, computed MRR, and lifecycle timestamps.
type SubscriptionSnapshot struct {
	SubscriptionID string
	Status         entities.SubscriptionStatus
	MRR            int64
	CreatedAt      time.Time
	CanceledAt     *time.Time
}

// Breakdown is the decomposition of MRR movement between two snapshots.
type Breakdown struct {
	New          int64
	Reactivation int64
	Expansion    int64
	Contraction  int64
	Churned      int64
}

// ComputeBreakdown classifies every subscription id present in either
// snapshot into new/reactivation/expansion/contraction/churned buckets
// per the engine's exact movement rules.
func ComputeBreakdown(previous, current []SubscriptionSnapshot) Breakdown {
	prevByID := indexByID(previous)
	currByID := indexByID(current)

	var b Breakdown
	for id, curr := range currByID {
		prev, existed := prevByID[id]
		currActive := isRecurringActive(curr.Status)
		switch {
		case !existed:
			if currActive {
				b.New += curr.MRR
			}
		case !isRecurringActive(prev.Status) && currActive:
			b.Reactivation += curr.MRR
		case isRecurringActive(prev.Status) && currActive:
			if curr.MRR > prev.MRR {
				b.Expansion += curr.MRR - prev.MRR
			} else if curr.MRR < prev.MRR {
				b.Contraction += prev.MRR - curr.MRR
			}
		}
	}
	for id, prev := range prevByID {
		if !isRecurringActive(prev.Status) {
			continue
		}
		curr, existed := currByID[id]
		if !existed || !isRecurringActive(curr.Status) {
			b.Churned += prev.MRR
		}
	}
	return b
}

func indexByID(snaps []SubscriptionSnapshot) map[string]SubscriptionSnapshot {
	m := make(map[string]SubscriptionSnapshot, len(snaps))
	for _, s := range snaps {
		m[s.SubscriptionID] = s
	}
	return m
}

// ChurnResult is the outcome of a churn-rate computation over a period.
type ChurnResult struct {
	Rate           float64
	Count          int64
	ChurnedRevenue int64
}

// ChurnRate computes the churn rate over [periodStart, periodEnd] from a
// set of subscription snapshots carrying CreatedAt/CanceledAt/Status.
func ChurnRate(subs []SubscriptionSnapshot, periodStart, periodEnd time.Time) ChurnResult {
	var activeAtStart int64
	var canceledInPeriod int64
	var churnedRevenue int64
	for _, s := range subs {
		if !s.CreatedAt.After(periodStart) && isRecurringActive(s.Status) {
			activeAtStart++
		}
		if s.CanceledAt != nil && !s.CanceledAt.Before(periodStart) && !s.CanceledAt.After(periodEnd) {
			canceledInPeriod++
			churnedRevenue += s.MRR
		}
	}
	if activeAtStart == 0 {
		return ChurnResult{Rate: 0, Count: canceledInPeriod, ChurnedRevenue: churnedRevenue}
	}
	rate := (float64(canceledInPeriod) / float64(activeAtStart)) * 100
	return ChurnResult{Rate: rate, Count: canceledInPeriod, ChurnedRevenue: churnedRevenue}
}

// PaymentSnapshot is the minimal per-payment state revenue computation
// needs.
type PaymentSnapshot struct {
	SubscriptionID *string
	Status         entities.PaymentStatus
	Amount         int64
	RefundedAmount int64
	Currency       string
	CreatedAt      time.Time
}

// RevenueResult is the period revenue breakdown for a single currency.
type RevenueResult struct {
	Total     int64
	Recurring int64
	OneTime   int64
	Refunded  int64
	Net       int64
}

// Revenue sums payments in [periodStart, periodEnd] for currency into the
// total/recurring/oneTime/refunded/net breakdown.
func Revenue(payments []PaymentSnapshot, currency string, periodStart, periodEnd time.Time) RevenueResult {
	var res RevenueResult
	for _, p := range payments {
		if p.Currency != currency {
			continue
		}
		if p.CreatedAt.Before(periodStart) || p.CreatedAt.After(periodEnd) {
			continue
		}
		switch p.Status {
		case entities.PaymentStatusSucceeded:
			res.Total += p.Amount
			if p.SubscriptionID != nil {
				res.Recurring += p.Amount
			} else {
				res.OneTime += p.Amount
			}
		case entities.PaymentStatusRefunded:
			res.Refunded += p.RefundedAmount
		}
	}
	res.Net = res.Total - res.Refunded
	return res
}
