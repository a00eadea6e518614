package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/domain/entities"
)

// PaymentRepository defines storage operations for Payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.Payment, error)
	GetByProviderPaymentID(ctx context.Context, provider, providerPaymentID string) (*entities.Payment, error)
	Update(ctx context.Context, payment *entities.Payment) error

	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*Page[*entities.Payment], error)
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) (*Page[*entities.Payment], error)
	ListByStatus(ctx context.Context, status entities.PaymentStatus, limit, offset int) (*Page[*entities.Payment], error)

	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// PaymentMethodRepository defines storage operations for PaymentMethod records.
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *entities.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentMethod, error)
	GetByProviderID(ctx context.Context, provider, providerPaymentMethodID string) (*entities.PaymentMethod, error)
	GetDefaultForCustomer(ctx context.Context, customerID uuid.UUID) (*entities.PaymentMethod, error)
	Update(ctx context.Context, method *entities.PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*Page[*entities.PaymentMethod], error)

	// ClearDefault unsets IsDefault on every other payment method belonging
	// to the customer; called inside the same transaction as setting a new
	// default so exactly one default exists at a time.
	ClearDefault(ctx context.Context, customerID uuid.UUID, exceptID uuid.UUID) error
}

// RefundRepository defines storage operations for Refund records.
type RefundRepository interface {
	Create(ctx context.Context, refund *entities.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Refund, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entities.Refund, error)
	Update(ctx context.Context, refund *entities.Refund) error

	ListByPayment(ctx context.Context, paymentID uuid.UUID, limit, offset int) (*Page[*entities.Refund], error)

	// SumSucceededByPayment returns the total amount already refunded for a
	// payment, used to enforce that cumulative refunds never exceed the
	// original payment amount.
	SumSucceededByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error)
}
