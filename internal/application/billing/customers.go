package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// CreateCustomer persists a new customer and emits customer.created.
func (f *Facade) CreateCustomer(ctx context.Context, customer *entities.Customer) (*entities.Customer, error) {
	customer.Livemode = f.cfg.Livemode
	if err := f.storage.Customers().Create(ctx, customer); err != nil {
		logger.Error("Failed to create customer", err, map[string]interface{}{"external_id": customer.ExternalID})
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	f.emitter.Emit(Event{Type: EventCustomerCreated, CustomerID: &customer.ID, Timestamp: f.clock.Now()})
	return customer, nil
}

// GetCustomer fetches a customer by id.
func (f *Facade) GetCustomer(ctx context.Context, id uuid.UUID) (*entities.Customer, error) {
	return f.storage.Customers().GetByID(ctx, id)
}

// ListCustomers paginates all customers.
func (f *Facade) ListCustomers(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Customer], error) {
	return f.storage.Customers().List(ctx, limit, offset)
}

// UpdateCustomer persists changes to an existing customer and emits
// customer.updated.
func (f *Facade) UpdateCustomer(ctx context.Context, customer *entities.Customer) (*entities.Customer, error) {
	if err := f.storage.Customers().Update(ctx, customer); err != nil {
		logger.Error("Failed to update customer", err, map[string]interface{}{"customer_id": customer.ID})
		return nil, fmt.Errorf("updating customer: %w", err)
	}
	f.emitter.Emit(Event{Type: EventCustomerUpdated, CustomerID: &customer.ID, Timestamp: f.clock.Now()})
	return customer, nil
}

// DeleteCustomer soft-deletes a customer and emits customer.deleted.
func (f *Facade) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := f.storage.Customers().Delete(ctx, id); err != nil {
		logger.Error("Failed to delete customer", err, map[string]interface{}{"customer_id": id})
		return fmt.Errorf("deleting customer: %w", err)
	}
	f.emitter.Emit(Event{Type: EventCustomerDeleted, CustomerID: &id, Timestamp: f.clock.Now()})
	return nil
}
