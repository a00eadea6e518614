package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// InvoiceRepository defines storage operations for Invoice records.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entities.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Invoice, error)
	GetByProviderInvoiceID(ctx context.Context, provider, providerInvoiceID string) (*entities.Invoice, error)
	Update(ctx context.Context, invoice *entities.Invoice) error

	CreateLines(ctx context.Context, lines []*entities.InvoiceLine) error
	ListLines(ctx context.Context, invoiceID uuid.UUID) ([]*entities.InvoiceLine, error)

	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*Page[*entities.Invoice], error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) (*Page[*entities.Invoice], error)
	ListOverdue(ctx context.Context, limit, offset int) (*Page[*entities.Invoice], error)
}
