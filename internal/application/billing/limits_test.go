package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	"github.com/22smeargle/qzpay/pkg/clock"
)

type fakeLimitRepo struct {
	repositories.LimitRepository
	limit      *entities.CustomerLimit
	incrCalled bool
}

func (f *fakeLimitRepo) LockCustomerLimitForUpdate(ctx context.Context, customerID uuid.UUID, limitKey string) (*entities.CustomerLimit, error) {
	return f.limit, nil
}

func (f *fakeLimitRepo) IncrementUsage(ctx context.Context, customerID uuid.UUID, limitKey string, delta int64) error {
	f.incrCalled = true
	f.limit.CurrentValue += delta
	return nil
}

type fakeLimitStorage struct {
	repositories.Storage
	limits *fakeLimitRepo
}

func (f *fakeLimitStorage) Limits() repositories.LimitRepository { return f.limits }
func (f *fakeLimitStorage) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type LimitsTestSuite struct {
	suite.Suite
}

func (s *LimitsTestSuite) TestRecordUsage_WithinBounds() {
	repo := &fakeLimitRepo{limit: &entities.CustomerLimit{MaxValue: 100, CurrentValue: 50}}
	storage := &fakeLimitStorage{limits: repo}
	f := &Facade{storage: storage, emitter: NewEmitter(), clock: clock.RealClock{}}

	err := f.RecordUsage(context.Background(), uuid.New(), "api_calls", 10)
	s.NoError(err)
	s.True(repo.incrCalled)
	s.Equal(int64(60), repo.limit.CurrentValue)
}

func (s *LimitsTestSuite) TestRecordUsage_ExceedsLimit() {
	repo := &fakeLimitRepo{limit: &entities.CustomerLimit{MaxValue: 100, CurrentValue: 95}}
	storage := &fakeLimitStorage{limits: repo}
	f := &Facade{storage: storage, emitter: NewEmitter(), clock: clock.RealClock{}}

	err := f.RecordUsage(context.Background(), uuid.New(), "api_calls", 10)
	s.Error(err)
	s.False(repo.incrCalled)
}

func TestLimitsTestSuite(t *testing.T) {
	suite.Run(t, new(LimitsTestSuite))
}
