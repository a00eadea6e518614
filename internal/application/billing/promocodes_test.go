package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/application/discount"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	"github.com/22smeargle/qzpay/pkg/clock"
)

type fakePromoRepo struct {
	repositories.PromoCodeRepository
	promo          *entities.PromoCode
	incrementOK    bool
	redemptions    int
}

func (f *fakePromoRepo) GetByCode(ctx context.Context, code string) (*entities.PromoCode, error) {
	return f.promo, nil
}

func (f *fakePromoRepo) IncrementRedemptions(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.incrementOK, nil
}

func (f *fakePromoRepo) RecordRedemption(ctx context.Context, redemption *entities.PromoCodeRedemption) error {
	f.redemptions++
	return nil
}

type fakePromoStorage struct {
	repositories.Storage
	promos *fakePromoRepo
}

func (f *fakePromoStorage) PromoCodes() repositories.PromoCodeRepository { return f.promos }

type PromoCodesTestSuite struct {
	suite.Suite
}

func (s *PromoCodesTestSuite) validPromo() *entities.PromoCode {
	return &entities.PromoCode{
		ID:            uuid.New(),
		Code:          "SAVE30",
		DiscountType:  entities.DiscountTypePercentage,
		DiscountValue: 30,
		Active:        true,
	}
}

func (s *PromoCodesTestSuite) TestRedeemPromoCode_Success() {
	repo := &fakePromoRepo{promo: s.validPromo(), incrementOK: true}
	storage := &fakePromoStorage{promos: repo}
	f := &Facade{storage: storage, emitter: NewEmitter(), clock: clock.RealClock{}}

	amount, err := f.RedeemPromoCode(context.Background(), uuid.New(), "SAVE30", discount.ValidationContext{
		Subtotal:    10000,
		CurrentDate: time.Now(),
	})
	s.NoError(err)
	s.Equal(int64(3000), amount)
	s.Equal(1, repo.redemptions)
}

func (s *PromoCodesTestSuite) TestRedeemPromoCode_InvalidNeverIncrementsOrRecords() {
	promo := s.validPromo()
	promo.Active = false
	repo := &fakePromoRepo{promo: promo, incrementOK: true}
	storage := &fakePromoStorage{promos: repo}
	f := &Facade{storage: storage, emitter: NewEmitter(), clock: clock.RealClock{}}

	_, err := f.RedeemPromoCode(context.Background(), uuid.New(), "SAVE30", discount.ValidationContext{
		Subtotal:    10000,
		CurrentDate: time.Now(),
	})
	s.Error(err)
	s.Equal(0, repo.redemptions)
}

func (s *PromoCodesTestSuite) TestRedeemPromoCode_MaxRedemptionsReached() {
	repo := &fakePromoRepo{promo: s.validPromo(), incrementOK: false}
	storage := &fakePromoStorage{promos: repo}
	f := &Facade{storage: storage, emitter: NewEmitter(), clock: clock.RealClock{}}

	_, err := f.RedeemPromoCode(context.Background(), uuid.New(), "SAVE30", discount.ValidationContext{
		Subtotal:    10000,
		CurrentDate: time.Now(),
	})
	s.Error(err)
	s.Equal(0, repo.redemptions)
}

func TestPromoCodesTestSuite(t *testing.T) {
	suite.Run(t, new(PromoCodesTestSuite))
}
