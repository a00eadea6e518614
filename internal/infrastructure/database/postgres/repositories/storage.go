package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/internal/domain/repositories"
)

// AllModels returns every GORM-backed entity for AutoMigrate. Entities carry
// their own gorm tags, so there is no separate persistence-model layer to
// keep in sync.
func AllModels() []interface{} {
	return []interface{}{
		&entities.Customer{},
		&entities.Plan{},
		&entities.Price{},
		&entities.Subscription{},
		&entities.SubscriptionAddOn{},
		&entities.AddOn{},
		&entities.Payment{},
		&entities.PaymentMethod{},
		&entities.Refund{},
		&entities.Invoice{},
		&entities.InvoiceLine{},
		&entities.PromoCode{},
		&entities.PromoCodeRedemption{},
		&entities.AutomaticDiscount{},
		&entities.EntitlementDefinition{},
		&entities.EntitlementGrant{},
		&entities.LimitDefinition{},
		&entities.CustomerLimit{},
		&entities.UsageRecord{},
		&entities.Vendor{},
		&entities.VendorPayout{},
		&entities.Job{},
		&entities.WebhookEvent{},
		&entities.IdempotencyKey{},
		&entities.AuditLog{},
	}
}

// GormStorage is the GORM/PostgreSQL adapter for the Storage port: a single
// injectable dependency composing every repository, plus the shared
// transaction boundary they participate in.
type GormStorage struct {
	db *gorm.DB

	customers           *CustomerRepositoryImpl
	plans               *PlanRepositoryImpl
	prices              *PriceRepositoryImpl
	subscriptions       *SubscriptionRepositoryImpl
	addOns              *AddOnRepositoryImpl
	payments            *PaymentRepositoryImpl
	paymentMethods      *PaymentMethodRepositoryImpl
	refunds             *RefundRepositoryImpl
	invoices            *InvoiceRepositoryImpl
	webhookEvents       *WebhookEventRepositoryImpl
	promoCodes          *PromoCodeRepositoryImpl
	automaticDiscounts  *AutomaticDiscountRepositoryImpl
	entitlements        *EntitlementRepositoryImpl
	limits              *LimitRepositoryImpl
	usageRecords        *UsageRecordRepositoryImpl
	vendors             *VendorRepositoryImpl
	vendorPayouts       *VendorPayoutRepositoryImpl
	jobs                *JobRepositoryImpl
	idempotencyKeys     *IdempotencyKeyRepositoryImpl
	auditLogs           *AuditLogRepositoryImpl
}

// NewGormStorage wires every sub-repository against a single *gorm.DB.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{
		db:                 db,
		customers:          &CustomerRepositoryImpl{db: db},
		plans:              &PlanRepositoryImpl{db: db},
		prices:             &PriceRepositoryImpl{db: db},
		subscriptions:      &SubscriptionRepositoryImpl{db: db},
		addOns:             &AddOnRepositoryImpl{db: db},
		payments:           &PaymentRepositoryImpl{db: db},
		paymentMethods:     &PaymentMethodRepositoryImpl{db: db},
		refunds:            &RefundRepositoryImpl{db: db},
		invoices:           &InvoiceRepositoryImpl{db: db},
		webhookEvents:      &WebhookEventRepositoryImpl{db: db},
		promoCodes:         &PromoCodeRepositoryImpl{db: db},
		automaticDiscounts: &AutomaticDiscountRepositoryImpl{db: db},
		entitlements:       &EntitlementRepositoryImpl{db: db},
		limits:             &LimitRepositoryImpl{db: db},
		usageRecords:       &UsageRecordRepositoryImpl{db: db},
		vendors:            &VendorRepositoryImpl{db: db},
		vendorPayouts:      &VendorPayoutRepositoryImpl{db: db},
		jobs:               &JobRepositoryImpl{db: db},
		idempotencyKeys:    &IdempotencyKeyRepositoryImpl{db: db},
		auditLogs:          &AuditLogRepositoryImpl{db: db},
	}
}

// Transaction runs fn inside a single database transaction. The *gorm.DB
// handle is threaded through ctx (see conn in tx.go) so every repository
// call fn makes against the returned context joins the same transaction.
func (s *GormStorage) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *GormStorage) Customers() repositories.CustomerRepository { return s.customers }
func (s *GormStorage) Plans() repositories.PlanRepository         { return s.plans }
func (s *GormStorage) Prices() repositories.PriceRepository       { return s.prices }
func (s *GormStorage) Subscriptions() repositories.SubscriptionRepository {
	return s.subscriptions
}
func (s *GormStorage) AddOns() repositories.AddOnRepository             { return s.addOns }
func (s *GormStorage) Payments() repositories.PaymentRepository         { return s.payments }
func (s *GormStorage) PaymentMethods() repositories.PaymentMethodRepository {
	return s.paymentMethods
}
func (s *GormStorage) Refunds() repositories.RefundRepository   { return s.refunds }
func (s *GormStorage) Invoices() repositories.InvoiceRepository { return s.invoices }
func (s *GormStorage) WebhookEvents() repositories.WebhookEventRepository {
	return s.webhookEvents
}
func (s *GormStorage) PromoCodes() repositories.PromoCodeRepository { return s.promoCodes }
func (s *GormStorage) AutomaticDiscounts() repositories.AutomaticDiscountRepository {
	return s.automaticDiscounts
}
func (s *GormStorage) Entitlements() repositories.EntitlementRepository { return s.entitlements }
func (s *GormStorage) Limits() repositories.LimitRepository             { return s.limits }
func (s *GormStorage) UsageRecords() repositories.UsageRecordRepository { return s.usageRecords }
func (s *GormStorage) Vendors() repositories.VendorRepository           { return s.vendors }
func (s *GormStorage) VendorPayouts() repositories.VendorPayoutRepository {
	return s.vendorPayouts
}
func (s *GormStorage) Jobs() repositories.JobRepository { return s.jobs }
func (s *GormStorage) IdempotencyKeys() repositories.IdempotencyKeyRepository {
	return s.idempotencyKeys
}
func (s *GormStorage) AuditLogs() repositories.AuditLogRepository { return s.auditLogs }
