package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type SubscriptionRepositoryTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo *SubscriptionRepositoryImpl
}

func (s *SubscriptionRepositoryTestSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(s.T(), err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(s.T(), err)

	s.mock = mock
	s.repo = &SubscriptionRepositoryImpl{db: gormDB}
}

func (s *SubscriptionRepositoryTestSuite) TestLockForUpdateUsesRowLock() {
	id := uuid.New()
	s.mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE id = \$1.*FOR UPDATE`).
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	subscription, err := s.repo.LockForUpdate(context.Background(), id)
	s.NoError(err)
	s.Require().NotNil(subscription)
	s.Equal(id, subscription.ID)
}

func (s *SubscriptionRepositoryTestSuite) TestLockForUpdateNotFound() {
	id := uuid.New()
	s.mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(nil))

	subscription, err := s.repo.LockForUpdate(context.Background(), id)
	s.Error(err)
	s.Nil(subscription)
}

func (s *SubscriptionRepositoryTestSuite) TestListDueForRenewalOrdersByPeriodEnd() {
	asOf := time.Now()
	row := sqlmock.NewRows([]string{"id", "current_period_end"}).
		AddRow(uuid.New(), asOf.Add(-time.Hour)).
		AddRow(uuid.New(), asOf.Add(-time.Minute))

	s.mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE \(status IN \(\$1,\$2\) AND current_period_end <= \$3\) ORDER BY current_period_end ASC LIMIT \$4`).
		WillReturnRows(row)

	subscriptions, err := s.repo.ListDueForRenewal(context.Background(), asOf, 10)
	s.NoError(err)
	s.Len(subscriptions, 2)
}

func (s *SubscriptionRepositoryTestSuite) TestUpdatePersistsOptimisticVersion() {
	subscription := &entities.Subscription{ID: uuid.New(), Version: 3}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Update(context.Background(), subscription)
	s.NoError(err)
}

func TestSubscriptionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SubscriptionRepositoryTestSuite))
}
