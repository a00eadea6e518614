package discount

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type DiscountEngineTestSuite struct {
	suite.Suite
	now     time.Time
	ctxBase ValidationContext
}

func (s *DiscountEngineTestSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.ctxBase = ValidationContext{
		PlanID:      "plan-pro",
		Currency:    "usd",
		Subtotal:    10000,
		Quantity:    1,
		CurrentDate: s.now,
	}
}

func (s *DiscountEngineTestSuite) TestValidate_InactiveRejected() {
	promo := &entities.PromoCode{Active: false, DiscountType: entities.DiscountTypePercentage}
	result := Validate(promo, s.ctxBase)
	s.False(result.Valid)
}

func (s *DiscountEngineTestSuite) TestValidate_ExpiredRejected() {
	past := s.now.Add(-time.Hour)
	promo := &entities.PromoCode{Active: true, ValidUntil: &past, DiscountType: entities.DiscountTypePercentage}
	result := Validate(promo, s.ctxBase)
	s.False(result.Valid)
}

func (s *DiscountEngineTestSuite) TestValidate_RedemptionCapRejected() {
	max := int64(5)
	promo := &entities.PromoCode{Active: true, MaxRedemptions: &max, CurrentRedemptions: 5, DiscountType: entities.DiscountTypePercentage}
	result := Validate(promo, s.ctxBase)
	s.False(result.Valid)
}

func (s *DiscountEngineTestSuite) TestValidate_FixedAmountCurrencyMismatch() {
	cur := "eur"
	promo := &entities.PromoCode{Active: true, DiscountType: entities.DiscountTypeFixedAmount, Currency: &cur}
	result := Validate(promo, s.ctxBase)
	s.False(result.Valid)
}

func (s *DiscountEngineTestSuite) TestValidate_PlanScopeMismatch() {
	promo := &entities.PromoCode{
		Active:            true,
		DiscountType:       entities.DiscountTypePercentage,
		ApplicablePlanIDs: []uuid.UUID{uuid.New()},
	}
	result := Validate(promo, s.ctxBase)
	s.False(result.Valid)
}

func (s *DiscountEngineTestSuite) TestValidate_ConditionMinAmount() {
	promo := &entities.PromoCode{
		Active:       true,
		DiscountType: entities.DiscountTypePercentage,
		Conditions:   []entities.DiscountCondition{{Field: "min_amount", Value: float64(20000)}},
	}
	result := Validate(promo, s.ctxBase)
	s.False(result.Valid)

	ctx := s.ctxBase
	ctx.Subtotal = 30000
	result = Validate(promo, ctx)
	s.True(result.Valid)
}

func (s *DiscountEngineTestSuite) TestValidate_UnknownConditionPassesThrough() {
	promo := &entities.PromoCode{
		Active:       true,
		DiscountType: entities.DiscountTypePercentage,
		Conditions:   []entities.DiscountCondition{{Field: "some_future_condition", Value: "x"}},
	}
	result := Validate(promo, s.ctxBase)
	s.True(result.Valid)
}

func (s *DiscountEngineTestSuite) TestComputeAmount_PercentageClamped() {
	amt, err := ComputeAmount(entities.DiscountTypePercentage, 150, 10000)
	s.NoError(err)
	s.Equal(int64(10000), amt)

	amt, err = ComputeAmount(entities.DiscountTypePercentage, -10, 10000)
	s.NoError(err)
	s.Equal(int64(0), amt)

	amt, err = ComputeAmount(entities.DiscountTypePercentage, 25, 10000)
	s.NoError(err)
	s.Equal(int64(2500), amt)
}

func (s *DiscountEngineTestSuite) TestComputeAmount_FixedAmountClamped() {
	amt, err := ComputeAmount(entities.DiscountTypeFixedAmount, 50000, 10000)
	s.NoError(err)
	s.Equal(int64(10000), amt)
}

func (s *DiscountEngineTestSuite) TestComputeAmount_FreeTrialReturnsSubtotal() {
	amt, err := ComputeAmount(entities.DiscountTypeFreeTrial, 0, 10000)
	s.NoError(err)
	s.Equal(int64(10000), amt)
}

func (s *DiscountEngineTestSuite) TestStack_None_OnlyFirstApplies() {
	candidates := []Candidate{
		{ID: "a", DiscountType: entities.DiscountTypePercentage, Value: 10},
		{ID: "b", DiscountType: entities.DiscountTypePercentage, Value: 50},
	}
	result := Stack(entities.StackingModeNone, 10000, candidates)
	s.Len(result.AppliedDiscounts, 1)
	s.Equal("a", result.AppliedDiscounts[0].ID)
	s.Equal(int64(1000), result.DiscountAmount)
	s.Len(result.SkippedDiscounts, 1)
}

func (s *DiscountEngineTestSuite) TestStack_Best_PicksLargest() {
	candidates := []Candidate{
		{ID: "a", DiscountType: entities.DiscountTypePercentage, Value: 10},
		{ID: "b", DiscountType: entities.DiscountTypePercentage, Value: 50},
	}
	result := Stack(entities.StackingModeBest, 10000, candidates)
	s.Len(result.AppliedDiscounts, 1)
	s.Equal("b", result.AppliedDiscounts[0].ID)
	s.Equal(int64(5000), result.DiscountAmount)
}

func (s *DiscountEngineTestSuite) TestStack_Additive_SumsAndCaps() {
	candidates := []Candidate{
		{ID: "a", DiscountType: entities.DiscountTypePercentage, Value: 60},
		{ID: "b", DiscountType: entities.DiscountTypePercentage, Value: 60},
	}
	result := Stack(entities.StackingModeAdditive, 10000, candidates)
	s.Equal(int64(10000), result.DiscountAmount)
	s.Equal(int64(0), result.FinalAmount)
}

func (s *DiscountEngineTestSuite) TestStack_Multiplicative_CompoundsOnRemainder() {
	candidates := []Candidate{
		{ID: "a", DiscountType: entities.DiscountTypePercentage, Value: 50},
		{ID: "b", DiscountType: entities.DiscountTypePercentage, Value: 50},
	}
	result := Stack(entities.StackingModeMultiplicative, 10000, candidates)
	s.Equal(int64(7500), result.DiscountAmount)
	s.Equal(int64(2500), result.FinalAmount)
}

func (s *DiscountEngineTestSuite) TestEligibleAutomaticDiscounts_SortsByPriorityDescending() {
	low := &entities.AutomaticDiscount{ID: uuid.New(), Active: true, Priority: 1}
	high := &entities.AutomaticDiscount{ID: uuid.New(), Active: true, Priority: 10}
	eligible := EligibleAutomaticDiscounts([]*entities.AutomaticDiscount{low, high}, s.ctxBase)
	s.Equal(high.ID, eligible[0].ID)
	s.Equal(low.ID, eligible[1].ID)
}

func TestDiscountEngineTestSuite(t *testing.T) {
	suite.Run(t, new(DiscountEngineTestSuite))
}
