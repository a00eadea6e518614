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

// InvoiceRepositoryImpl implements InvoiceRepository using GORM.
type InvoiceRepositoryImpl struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new InvoiceRepository instance.
func NewInvoiceRepository(db *gorm.DB) repositories.InvoiceRepository {
	return &InvoiceRepositoryImpl{db: db}
}

func (r *InvoiceRepositoryImpl) Create(ctx context.Context, invoice *entities.Invoice) error {
	if err := conn(ctx, r.db).Create(invoice).Error; err != nil {
		logger.Error("Failed to create invoice", err)
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Invoice, error) {
	var invoice entities.Invoice
	if err := conn(ctx, r.db).Where("id = ?", id).First(&invoice).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("invoice")
		}
		logger.Error("Failed to get invoice by ID", err)
		return nil, fmt.Errorf("failed to get invoice by ID: %w", err)
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) GetByProviderInvoiceID(ctx context.Context, provider, providerInvoiceID string) (*entities.Invoice, error) {
	var invoice entities.Invoice
	if err := conn(ctx, r.db).Where("provider_invoice_id = ?", providerInvoiceID).First(&invoice).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("invoice")
		}
		logger.Error("Failed to get invoice by provider invoice ID", err)
		return nil, fmt.Errorf("failed to get invoice by provider invoice ID: %w", err)
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) Update(ctx context.Context, invoice *entities.Invoice) error {
	if err := conn(ctx, r.db).Save(invoice).Error; err != nil {
		logger.Error("Failed to update invoice", err)
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepositoryImpl) CreateLines(ctx context.Context, lines []*entities.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := conn(ctx, r.db).Create(&lines).Error; err != nil {
		logger.Error("Failed to create invoice lines", err)
		return fmt.Errorf("failed to create invoice lines: %w", err)
	}
	return nil
}

func (r *InvoiceRepositoryImpl) ListLines(ctx context.Context, invoiceID uuid.UUID) ([]*entities.InvoiceLine, error) {
	var lines []*entities.InvoiceLine
	if err := conn(ctx, r.db).Where("invoice_id = ?", invoiceID).Order("created_at ASC").Find(&lines).Error; err != nil {
		logger.Error("Failed to list invoice lines", err)
		return nil, fmt.Errorf("failed to list invoice lines: %w", err)
	}
	return lines, nil
}

func (r *InvoiceRepositoryImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Invoice], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var invoices []*entities.Invoice
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Invoice{}).Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		logger.Error("Failed to count customer invoices", err)
		return nil, fmt.Errorf("failed to count customer invoices: %w", err)
	}
	if err := conn(ctx, r.db).Where("customer_id = ?", customerID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&invoices).Error; err != nil {
		logger.Error("Failed to list customer invoices", err)
		return nil, fmt.Errorf("failed to list customer invoices: %w", err)
	}
	return repositories.NewPage(invoices, total, limit, offset), nil
}

func (r *InvoiceRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Invoice], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var invoices []*entities.Invoice
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Invoice{}).Where("subscription_id = ?", subscriptionID).Count(&total).Error; err != nil {
		logger.Error("Failed to count subscription invoices", err)
		return nil, fmt.Errorf("failed to count subscription invoices: %w", err)
	}
	if err := conn(ctx, r.db).Where("subscription_id = ?", subscriptionID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&invoices).Error; err != nil {
		logger.Error("Failed to list subscription invoices", err)
		return nil, fmt.Errorf("failed to list subscription invoices: %w", err)
	}
	return repositories.NewPage(invoices, total, limit, offset), nil
}

func (r *InvoiceRepositoryImpl) ListOverdue(ctx context.Context, limit, offset int) (*repositories.Page[*entities.Invoice], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var invoices []*entities.Invoice
	var total int64

	query := conn(ctx, r.db).Model(&entities.Invoice{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < now()", entities.InvoiceStatusOpen)
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count overdue invoices", err)
		return nil, fmt.Errorf("failed to count overdue invoices: %w", err)
	}
	if err := conn(ctx, r.db).
		Where("status = ? AND due_date IS NOT NULL AND due_date < now()", entities.InvoiceStatusOpen).
		Order("due_date ASC").Limit(limit).Offset(offset).Find(&invoices).Error; err != nil {
		logger.Error("Failed to list overdue invoices", err)
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}
	return repositories.NewPage(invoices, total, limit, offset), nil
}
