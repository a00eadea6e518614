package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type RetryEligibilityTestSuite struct {
	suite.Suite
	engine *Engine
	now    time.Time
}

func (s *RetryEligibilityTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	s.engine = &Engine{cfg: Config{RetryIntervals: []int{1, 3, 5}}}
}

func (s *RetryEligibilityTestSuite) TestNextRetryDue_NotPastDue() {
	sub := &entities.Subscription{Status: entities.SubscriptionStatusActive}
	s.False(s.engine.nextRetryDue(sub, s.now))
}

func (s *RetryEligibilityTestSuite) TestNextRetryDue_RetryCountOutOfBounds() {
	started := s.now.AddDate(0, 0, -10)
	sub := &entities.Subscription{
		Status:               entities.SubscriptionStatusPastDue,
		GracePeriodStartedAt: &started,
		RetryCount:           3,
	}
	s.False(s.engine.nextRetryDue(sub, s.now))
}

func (s *RetryEligibilityTestSuite) TestNextRetryDue_NotYetDue() {
	started := s.now.AddDate(0, 0, 0)
	sub := &entities.Subscription{
		Status:               entities.SubscriptionStatusPastDue,
		GracePeriodStartedAt: &started,
		RetryCount:           0,
	}
	// interval for retryCount 0 is 1 day; now == gracePeriodStartedAt, so
	// nextRetryAt = started + 1 day > now ⇒ not yet due.
	s.False(s.engine.nextRetryDue(sub, s.now))
}

func (s *RetryEligibilityTestSuite) TestNextRetryDue_Due() {
	started := s.now.AddDate(0, 0, -1)
	sub := &entities.Subscription{
		Status:               entities.SubscriptionStatusPastDue,
		GracePeriodStartedAt: &started,
		RetryCount:           0,
	}
	s.True(s.engine.nextRetryDue(sub, s.now))
}

func (s *RetryEligibilityTestSuite) TestNextRetryDue_UsesLastRetryAtWhenSet() {
	started := s.now.AddDate(0, 0, -10)
	lastRetry := s.now.AddDate(0, 0, -2)
	sub := &entities.Subscription{
		Status:               entities.SubscriptionStatusPastDue,
		GracePeriodStartedAt: &started,
		LastRetryAt:          &lastRetry,
		RetryCount:           1, // interval = 3 days
	}
	// lastRetry + 3 days = now - 2 + 3 = now + 1 ⇒ not yet due
	s.False(s.engine.nextRetryDue(sub, s.now))
}

func TestRetryEligibilityTestSuite(t *testing.T) {
	suite.Run(t, new(RetryEligibilityTestSuite))
}
