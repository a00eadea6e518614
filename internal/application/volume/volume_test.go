package volume

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type VolumePricingTestSuite struct {
	suite.Suite
	tiers []entities.VolumeTier
}

func ptr(v int64) *int64 { return &v }

func (s *VolumePricingTestSuite) SetupTest() {
	s.tiers = []entities.VolumeTier{
		{MinQuantity: 1, MaxQuantity: ptr(10), DiscountType: entities.DiscountTypePercentage, DiscountValue: 0},
		{MinQuantity: 11, MaxQuantity: ptr(20), DiscountType: entities.DiscountTypePercentage, DiscountValue: 10},
		{MinQuantity: 21, MaxQuantity: nil, DiscountType: entities.DiscountTypePercentage, DiscountValue: 20},
	}
}

func (s *VolumePricingTestSuite) TestFindTier_MatchesHighestEligibleBand() {
	tier := FindTier(s.tiers, 15)
	s.Require().NotNil(tier)
	s.Equal(int64(11), tier.MinQuantity)

	tier = FindTier(s.tiers, 100)
	s.Require().NotNil(tier)
	s.Equal(int64(21), tier.MinQuantity)
}

func (s *VolumePricingTestSuite) TestFindTier_NoMatchReturnsNil() {
	tier := FindTier(s.tiers, 0)
	s.Nil(tier)
}

func (s *VolumePricingTestSuite) TestFlatVolumeDiscount_AppliesSingleTier() {
	total, err := FlatVolumeDiscount(s.tiers, 15, 1000)
	s.NoError(err)
	// 15 * 1000 = 15000, tier at qty 15 gives 10% off => 13500
	s.Equal(int64(13500), total)
}

func (s *VolumePricingTestSuite) TestGraduatedTieredPricing_MatchesSpecExample() {
	total, err := GraduatedTieredPricing(s.tiers, 25, 1000)
	s.NoError(err)
	s.Equal(int64(23000), total)
}

func (s *VolumePricingTestSuite) TestGraduatedTieredPricing_QuantityWithinFirstTier() {
	total, err := GraduatedTieredPricing(s.tiers, 5, 1000)
	s.NoError(err)
	s.Equal(int64(5000), total)
}

func TestVolumePricingTestSuite(t *testing.T) {
	suite.Run(t, new(VolumePricingTestSuite))
}
