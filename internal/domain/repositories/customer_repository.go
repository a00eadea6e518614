package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// CustomerRepository defines storage operations for Customer records.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error)
	GetByExternalID(ctx context.Context, externalID string) (*entities.Customer, error)
	GetByProviderCustomerID(ctx context.Context, provider, providerCustomerID string) (*entities.Customer, error)
	Update(ctx context.Context, customer *entities.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, limit, offset int) (*Page[*entities.Customer], error)
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
}
