package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	qzerrors "github.com/22smeargle/qzpay/pkg/errors"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// CustomerRepositoryImpl implements CustomerRepository using GORM.
type CustomerRepositoryImpl struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new CustomerRepository instance.
func NewCustomerRepository(db *gorm.DB) repositories.CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

func (r *CustomerRepositoryImpl) Create(ctx context.Context, customer *entities.Customer) error {
	if err := conn(ctx, r.db).Create(customer).Error; err != nil {
		logger.Error("Failed to create customer", err)
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error) {
	var customer entities.Customer
	if err := conn(ctx, r.db).Where("id = ?", id).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("customer")
		}
		logger.Error("Failed to get customer by ID", err)
		return nil, fmt.Errorf("failed to get customer by ID: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) GetByExternalID(ctx context.Context, externalID string) (*entities.Customer, error) {
	var customer entities.Customer
	if err := conn(ctx, r.db).Where("external_id = ?", externalID).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("customer")
		}
		logger.Error("Failed to get customer by external ID", err)
		return nil, fmt.Errorf("failed to get customer by external ID: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) GetByProviderCustomerID(ctx context.Context, provider, providerCustomerID string) (*entities.Customer, error) {
	var customer entities.Customer
	column := fmt.Sprintf("provider_customer_ids->>'%s'", provider)
	if err := conn(ctx, r.db).Where(column+" = ?", providerCustomerID).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("customer")
		}
		logger.Error("Failed to get customer by provider customer ID", err)
		return nil, fmt.Errorf("failed to get customer by provider customer ID: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepositoryImpl) Update(ctx context.Context, customer *entities.Customer) error {
	if err := conn(ctx, r.db).Save(customer).Error; err != nil {
		logger.Error("Failed to update customer", err)
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := conn(ctx, r.db).Delete(&entities.Customer{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete customer", err)
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepositoryImpl) List(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Customer], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var customers []*entities.Customer
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Customer{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count customers", err)
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := conn(ctx, r.db).Order("created_at DESC").Limit(limit).Offset(offset).Find(&customers).Error; err != nil {
		logger.Error("Failed to list customers", err)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return repositories.NewPage(customers, total, limit, offset), nil
}

func (r *CustomerRepositoryImpl) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&entities.Customer{}).Where("external_id = ?", externalID).Count(&count).Error; err != nil {
		logger.Error("Failed to check customer existence", err)
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return count > 0, nil
}
