package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/provider"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
)

// fakeCustomerRepo embeds the interface so only List needs a real body;
// every other method panics if called, which no test here triggers.
type fakeCustomerRepo struct {
	repositories.CustomerRepository
	delay time.Duration
	err   error
}

func (f *fakeCustomerRepo) List(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Customer], error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return repositories.NewPage([]*entities.Customer{}, 0, limit, offset), nil
}

type fakeStorage struct {
	repositories.Storage
	customers *fakeCustomerRepo
}

func (f *fakeStorage) Customers() repositories.CustomerRepository { return f.customers }

type fakeProvider struct {
	provider.Provider
	delay time.Duration
	err   error
}

func (f *fakeProvider) Ping(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

type HealthTestSuite struct {
	suite.Suite
}

func (s *HealthTestSuite) TestStorageProbe_Healthy() {
	storage := &fakeStorage{customers: &fakeCustomerRepo{}}
	r := StorageProbe(context.Background(), storage, 0)
	s.Equal(StatusHealthy, r.Status)
	s.Empty(r.Error)
}

func (s *HealthTestSuite) TestStorageProbe_Degraded() {
	storage := &fakeStorage{customers: &fakeCustomerRepo{delay: 50 * time.Millisecond}}
	// degradedAt set below the probe's delay so a successful-but-slow call
	// still reports degraded rather than healthy.
	r := run(context.Background(), "storage", 200*time.Millisecond, 10*time.Millisecond, nil, func(ctx context.Context) error {
		_, err := storage.Customers().List(ctx, 1, 0)
		return err
	})
	s.Equal(StatusDegraded, r.Status)
}

func (s *HealthTestSuite) TestStorageProbe_UnhealthyOnError() {
	storage := &fakeStorage{customers: &fakeCustomerRepo{err: errors.New("connection refused")}}
	r := StorageProbe(context.Background(), storage, 0)
	s.Equal(StatusUnhealthy, r.Status)
	s.Equal("connection refused", r.Error)
}

func (s *HealthTestSuite) TestStorageProbe_TimesOut() {
	storage := &fakeStorage{customers: &fakeCustomerRepo{delay: 100 * time.Millisecond}}
	r := StorageProbe(context.Background(), storage, 10*time.Millisecond)
	s.Equal(StatusUnhealthy, r.Status)
	s.Equal("probe timed out", r.Error)
}

func (s *HealthTestSuite) TestPaymentProbe_Healthy() {
	p := &fakeProvider{}
	r := PaymentProbe(context.Background(), p, 0)
	s.Equal(StatusHealthy, r.Status)
}

func (s *HealthTestSuite) TestPaymentProbe_UnhealthyOnError() {
	p := &fakeProvider{err: errors.New("unauthorized")}
	r := PaymentProbe(context.Background(), p, 0)
	s.Equal(StatusUnhealthy, r.Status)
}

func (s *HealthTestSuite) TestCheck_WorstOfChildren() {
	storage := &fakeStorage{customers: &fakeCustomerRepo{}}
	p := &fakeProvider{err: errors.New("unauthorized")}
	report := Check(context.Background(), storage, p, 0)
	s.Equal(StatusUnhealthy, report.Status)
	s.Len(report.Probes, 2)
}

func (s *HealthTestSuite) TestCheck_AllHealthy() {
	storage := &fakeStorage{customers: &fakeCustomerRepo{}}
	p := &fakeProvider{}
	report := Check(context.Background(), storage, p, 0)
	s.Equal(StatusHealthy, report.Status)
}

func TestHealthTestSuite(t *testing.T) {
	suite.Run(t, new(HealthTestSuite))
}
