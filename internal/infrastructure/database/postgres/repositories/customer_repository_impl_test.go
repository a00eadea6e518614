package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

type CustomerRepositoryTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo *CustomerRepositoryImpl
}

func (s *CustomerRepositoryTestSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(s.T(), err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(s.T(), err)

	s.mock = mock
	s.repo = &CustomerRepositoryImpl{db: gormDB}
}

func (s *CustomerRepositoryTestSuite) TestGetByIDNotFound() {
	id := uuid.New()
	s.mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(nil))

	customer, err := s.repo.GetByID(context.Background(), id)
	s.Error(err)
	s.Nil(customer)
}

func (s *CustomerRepositoryTestSuite) TestExistsByExternalID() {
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).
		WithArgs("ext-123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := s.repo.ExistsByExternalID(context.Background(), "ext-123")
	s.NoError(err)
	s.True(exists)
}

func (s *CustomerRepositoryTestSuite) TestCreate() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	s.mock.ExpectCommit()

	customer := &entities.Customer{ExternalID: "ext-123", Email: "a@example.com"}
	err := s.repo.Create(context.Background(), customer)
	s.NoError(err)
}

func TestCustomerRepositorySuite(t *testing.T) {
	suite.Run(t, new(CustomerRepositoryTestSuite))
}
