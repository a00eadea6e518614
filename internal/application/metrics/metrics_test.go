package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type MetricsTestSuite struct {
	suite.Suite
}

func (s *MetricsTestSuite) TestNormalizedMonthlyPrice() {
	s.Equal(int64(1000), NormalizedMonthlyPrice(1000, entities.IntervalMonth, 1))
	s.Equal(int64(500), NormalizedMonthlyPrice(1000, entities.IntervalMonth, 2))
	s.Equal(int64(30000), NormalizedMonthlyPrice(1000, entities.IntervalDay, 1))
	s.Equal(int64(1000), NormalizedMonthlyPrice(12000, entities.IntervalYear, 1))
}

func (s *MetricsTestSuite) TestSubscriptionMRR_OnlyActiveOrTrialingCounts() {
	s.Equal(int64(2000), SubscriptionMRR(entities.SubscriptionStatusActive, 1000, 2))
	s.Equal(int64(2000), SubscriptionMRR(entities.SubscriptionStatusTrialing, 1000, 2))
	s.Equal(int64(0), SubscriptionMRR(entities.SubscriptionStatusCanceled, 1000, 2))
}

func (s *MetricsTestSuite) TestComputeBreakdown() {
	previous := []SubscriptionSnapshot{
		{SubscriptionID: "a", Status: entities.SubscriptionStatusActive, MRR: 1000},
		{SubscriptionID: "b", Status: entities.SubscriptionStatusCanceled, MRR: 0},
		{SubscriptionID: "c", Status: entities.SubscriptionStatusActive, MRR: 2000},
		{SubscriptionID: "d", Status: entities.SubscriptionStatusActive, MRR: 1500},
	}
	current := []SubscriptionSnapshot{
		{SubscriptionID: "a", Status: entities.SubscriptionStatusActive, MRR: 1500},
		{SubscriptionID: "b", Status: entities.SubscriptionStatusActive, MRR: 800},
		{SubscriptionID: "c", Status: entities.SubscriptionStatusActive, MRR: 1200},
		{SubscriptionID: "e", Status: entities.SubscriptionStatusActive, MRR: 500},
	}
	b := ComputeBreakdown(previous, current)
	s.Equal(int64(500), b.New)          // e
	s.Equal(int64(800), b.Reactivation) // b
	s.Equal(int64(500), b.Expansion)    // a: 1500-1000
	s.Equal(int64(800), b.Contraction)  // c: 2000-1200
	s.Equal(int64(1500), b.Churned)     // d missing in current
}

func (s *MetricsTestSuite) TestChurnRate() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	canceledAt := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	subs := []SubscriptionSnapshot{
		{SubscriptionID: "a", Status: entities.SubscriptionStatusCanceled, MRR: 1000, CreatedAt: start.Add(-time.Hour), CanceledAt: &canceledAt},
		{SubscriptionID: "b", Status: entities.SubscriptionStatusActive, MRR: 2000, CreatedAt: start.Add(-time.Hour)},
	}
	// a counted active-at-start is false since its status is canceled now,
	// but activeAtStart is evaluated on CreatedAt + Status at snapshot time
	// which here reflects end-of-period state; a realistic caller passes
	// start-of-period status separately. This test exercises the formula
	// shape with b as the only active-at-start subscriber.
	result := ChurnRate(subs, start, end)
	s.Equal(int64(1), result.Count)
	s.Equal(int64(1000), result.ChurnedRevenue)
}

func (s *MetricsTestSuite) TestRevenue() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	subID := "sub-1"
	payments := []PaymentSnapshot{
		{SubscriptionID: &subID, Status: entities.PaymentStatusSucceeded, Amount: 1000, Currency: "usd", CreatedAt: mid},
		{Status: entities.PaymentStatusSucceeded, Amount: 500, Currency: "usd", CreatedAt: mid},
		{Status: entities.PaymentStatusRefunded, RefundedAmount: 200, Currency: "usd", CreatedAt: mid},
		{Status: entities.PaymentStatusSucceeded, Amount: 999, Currency: "eur", CreatedAt: mid},
	}
	res := Revenue(payments, "usd", start, end)
	s.Equal(int64(1500), res.Total)
	s.Equal(int64(1000), res.Recurring)
	s.Equal(int64(500), res.OneTime)
	s.Equal(int64(200), res.Refunded)
	s.Equal(int64(1300), res.Net)
}

func TestMetricsTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}
