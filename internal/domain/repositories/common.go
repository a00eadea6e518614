package repositories

import "context"

// Page is the pagination envelope returned by every list operation across
// every repository in this package.
type Page[T any] struct {
	Data    []T   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewPage builds a Page envelope from a fetched slice and the total row
// count for the query (pre-limit), normalizing limit/offset to what was
// actually applied.
func NewPage[T any](data []T, total int64, limit, offset int) *Page[T] {
	return &Page[T]{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(data)) < total,
	}
}

// NormalizeLimitOffset clamps limit/offset to sane bounds shared by every
// list query: non-positive limit defaults to 20, limit is capped at 100,
// negative offset clamps to 0.
func NormalizeLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Storage is the root Storage Port: a Transaction boundary shared by every
// repository, plus accessors for each entity repository. Infrastructure
// adapters (gorm/postgres) implement this to give the application layer a
// single injectable dependency.
type Storage interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	Customers() CustomerRepository
	Plans() PlanRepository
	Prices() PriceRepository
	Subscriptions() SubscriptionRepository
	AddOns() AddOnRepository
	Payments() PaymentRepository
	PaymentMethods() PaymentMethodRepository
	Refunds() RefundRepository
	Invoices() InvoiceRepository
	WebhookEvents() WebhookEventRepository
	PromoCodes() PromoCodeRepository
	AutomaticDiscounts() AutomaticDiscountRepository
	Entitlements() EntitlementRepository
	Limits() LimitRepository
	UsageRecords() UsageRecordRepository
	Vendors() VendorRepository
	VendorPayouts() VendorPayoutRepository
	Jobs() JobRepository
	IdempotencyKeys() IdempotencyKeyRepository
	AuditLogs() AuditLogRepository
}
