package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
)

// GetInvoice fetches an invoice by id.
func (f *Facade) GetInvoice(ctx context.Context, id uuid.UUID) (*entities.Invoice, error) {
	return f.storage.Invoices().GetByID(ctx, id)
}

// ListInvoicesByCustomer paginates a customer's invoices.
func (f *Facade) ListInvoicesByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Invoice], error) {
	return f.storage.Invoices().ListByCustomer(ctx, customerID, limit, offset)
}

// MarkInvoicePaid records a successful settlement against an invoice and
// emits invoice.paid. It is the domain operation invoked once a payment
// covering the invoice's full remaining balance succeeds.
func (f *Facade) MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID, amountPaid int64) (*entities.Invoice, error) {
	invoice, err := f.storage.Invoices().GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("fetching invoice: %w", err)
	}
	now := f.clock.Now()
	invoice.AmountPaid += amountPaid
	invoice.AmountRemaining = invoice.Total - invoice.AmountPaid
	if invoice.AmountRemaining <= 0 {
		invoice.Status = entities.InvoiceStatusPaid
		invoice.PaidAt = &now
	}
	if err := f.storage.Invoices().Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	if invoice.Status == entities.InvoiceStatusPaid {
		f.emitter.Emit(Event{
			Type:       EventInvoicePaid,
			CustomerID: &invoice.CustomerID,
			Timestamp:  now,
			Data:       map[string]interface{}{"invoice_id": invoice.ID, "amount_paid": amountPaid},
		})
	}
	return invoice, nil
}
