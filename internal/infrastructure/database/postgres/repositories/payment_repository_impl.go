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

// PaymentRepositoryImpl implements PaymentRepository using GORM.
type PaymentRepositoryImpl struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository instance.
func NewPaymentRepository(db *gorm.DB) repositories.PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *entities.Payment) error {
	if err := conn(ctx, r.db).Create(payment).Error; err != nil {
		logger.Error("Failed to create payment", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	var payment entities.Payment
	if err := conn(ctx, r.db).Where("id = ?", id).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("payment")
		}
		logger.Error("Failed to get payment by ID", err)
		return nil, fmt.Errorf("failed to get payment by ID: %w", err)
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) GetByIdempotencyKey(ctx context.Context, key string) (*entities.Payment, error) {
	var payment entities.Payment
	if err := conn(ctx, r.db).Where("idempotency_key = ?", key).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("payment")
		}
		logger.Error("Failed to get payment by idempotency key", err)
		return nil, fmt.Errorf("failed to get payment by idempotency key: %w", err)
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) GetByProviderPaymentID(ctx context.Context, provider, providerPaymentID string) (*entities.Payment, error) {
	var payment entities.Payment
	if err := conn(ctx, r.db).Where("provider = ? AND provider_payment_id = ?", provider, providerPaymentID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("payment")
		}
		logger.Error("Failed to get payment by provider payment ID", err)
		return nil, fmt.Errorf("failed to get payment by provider payment ID: %w", err)
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, payment *entities.Payment) error {
	if err := conn(ctx, r.db).Save(payment).Error; err != nil {
		logger.Error("Failed to update payment", err)
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *PaymentRepositoryImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Payment], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var payments []*entities.Payment
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Payment{}).Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		logger.Error("Failed to count customer payments", err)
		return nil, fmt.Errorf("failed to count customer payments: %w", err)
	}
	if err := conn(ctx, r.db).Where("customer_id = ?", customerID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		logger.Error("Failed to list customer payments", err)
		return nil, fmt.Errorf("failed to list customer payments: %w", err)
	}
	return repositories.NewPage(payments, total, limit, offset), nil
}

func (r *PaymentRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Payment], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var payments []*entities.Payment
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Payment{}).Where("subscription_id = ?", subscriptionID).Count(&total).Error; err != nil {
		logger.Error("Failed to count subscription payments", err)
		return nil, fmt.Errorf("failed to count subscription payments: %w", err)
	}
	if err := conn(ctx, r.db).Where("subscription_id = ?", subscriptionID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		logger.Error("Failed to list subscription payments", err)
		return nil, fmt.Errorf("failed to list subscription payments: %w", err)
	}
	return repositories.NewPage(payments, total, limit, offset), nil
}

func (r *PaymentRepositoryImpl) ListByStatus(ctx context.Context, status entities.PaymentStatus, limit, offset int) (*repositories.Page[*entities.Payment], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var payments []*entities.Payment
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Payment{}).Where("status = ?", status).Count(&total).Error; err != nil {
		logger.Error("Failed to count payments by status", err)
		return nil, fmt.Errorf("failed to count payments by status: %w", err)
	}
	if err := conn(ctx, r.db).Where("status = ?", status).Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		logger.Error("Failed to list payments by status", err)
		return nil, fmt.Errorf("failed to list payments by status: %w", err)
	}
	return repositories.NewPage(payments, total, limit, offset), nil
}

func (r *PaymentRepositoryImpl) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&entities.Payment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to check payment existence", err)
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}
	return count > 0, nil
}

// PaymentMethodRepositoryImpl implements PaymentMethodRepository using GORM.
type PaymentMethodRepositoryImpl struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository instance.
func NewPaymentMethodRepository(db *gorm.DB) repositories.PaymentMethodRepository {
	return &PaymentMethodRepositoryImpl{db: db}
}

func (r *PaymentMethodRepositoryImpl) Create(ctx context.Context, method *entities.PaymentMethod) error {
	if err := conn(ctx, r.db).Create(method).Error; err != nil {
		logger.Error("Failed to create payment method", err)
		return fmt.Errorf("failed to create payment method: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentMethod, error) {
	var method entities.PaymentMethod
	if err := conn(ctx, r.db).Where("id = ?", id).First(&method).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("payment_method")
		}
		logger.Error("Failed to get payment method by ID", err)
		return nil, fmt.Errorf("failed to get payment method by ID: %w", err)
	}
	return &method, nil
}

func (r *PaymentMethodRepositoryImpl) GetByProviderID(ctx context.Context, provider, providerPaymentMethodID string) (*entities.PaymentMethod, error) {
	var method entities.PaymentMethod
	if err := conn(ctx, r.db).Where("provider = ? AND provider_payment_method_id = ?", provider, providerPaymentMethodID).First(&method).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("payment_method")
		}
		logger.Error("Failed to get payment method by provider ID", err)
		return nil, fmt.Errorf("failed to get payment method by provider ID: %w", err)
	}
	return &method, nil
}

func (r *PaymentMethodRepositoryImpl) GetDefaultForCustomer(ctx context.Context, customerID uuid.UUID) (*entities.PaymentMethod, error) {
	var method entities.PaymentMethod
	if err := conn(ctx, r.db).Where("customer_id = ? AND is_default = ?", customerID, true).First(&method).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("payment_method")
		}
		logger.Error("Failed to get default payment method", err)
		return nil, fmt.Errorf("failed to get default payment method: %w", err)
	}
	return &method, nil
}

func (r *PaymentMethodRepositoryImpl) Update(ctx context.Context, method *entities.PaymentMethod) error {
	if err := conn(ctx, r.db).Save(method).Error; err != nil {
		logger.Error("Failed to update payment method", err)
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := conn(ctx, r.db).Delete(&entities.PaymentMethod{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete payment method", err)
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepositoryImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) (*repositories.Page[*entities.PaymentMethod], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var methods []*entities.PaymentMethod
	var total int64

	if err := conn(ctx, r.db).Model(&entities.PaymentMethod{}).Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		logger.Error("Failed to count customer payment methods", err)
		return nil, fmt.Errorf("failed to count customer payment methods: %w", err)
	}
	if err := conn(ctx, r.db).Where("customer_id = ?", customerID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&methods).Error; err != nil {
		logger.Error("Failed to list customer payment methods", err)
		return nil, fmt.Errorf("failed to list customer payment methods: %w", err)
	}
	return repositories.NewPage(methods, total, limit, offset), nil
}

func (r *PaymentMethodRepositoryImpl) ClearDefault(ctx context.Context, customerID uuid.UUID, exceptID uuid.UUID) error {
	query := conn(ctx, r.db).Model(&entities.PaymentMethod{}).Where("customer_id = ? AND is_default = ?", customerID, true)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Update("is_default", false).Error; err != nil {
		logger.Error("Failed to clear default payment methods", err)
		return fmt.Errorf("failed to clear default payment methods: %w", err)
	}
	return nil
}

// RefundRepositoryImpl implements RefundRepository using GORM.
type RefundRepositoryImpl struct {
	db *gorm.DB
}

// NewRefundRepository creates a new RefundRepository instance.
func NewRefundRepository(db *gorm.DB) repositories.RefundRepository {
	return &RefundRepositoryImpl{db: db}
}

func (r *RefundRepositoryImpl) Create(ctx context.Context, refund *entities.Refund) error {
	if err := conn(ctx, r.db).Create(refund).Error; err != nil {
		logger.Error("Failed to create refund", err)
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

func (r *RefundRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Refund, error) {
	var refund entities.Refund
	if err := conn(ctx, r.db).Where("id = ?", id).First(&refund).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("refund")
		}
		logger.Error("Failed to get refund by ID", err)
		return nil, fmt.Errorf("failed to get refund by ID: %w", err)
	}
	return &refund, nil
}

func (r *RefundRepositoryImpl) GetByIdempotencyKey(ctx context.Context, key string) (*entities.Refund, error) {
	var refund entities.Refund
	if err := conn(ctx, r.db).Where("idempotency_key = ?", key).First(&refund).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, qzerrors.NewNotFoundError("refund")
		}
		logger.Error("Failed to get refund by idempotency key", err)
		return nil, fmt.Errorf("failed to get refund by idempotency key: %w", err)
	}
	return &refund, nil
}

func (r *RefundRepositoryImpl) Update(ctx context.Context, refund *entities.Refund) error {
	if err := conn(ctx, r.db).Save(refund).Error; err != nil {
		logger.Error("Failed to update refund", err)
		return fmt.Errorf("failed to update refund: %w", err)
	}
	return nil
}

func (r *RefundRepositoryImpl) ListByPayment(ctx context.Context, paymentID uuid.UUID, limit, offset int) (*repositories.Page[*entities.Refund], error) {
	limit, offset = repositories.NormalizeLimitOffset(limit, offset)
	var refunds []*entities.Refund
	var total int64

	if err := conn(ctx, r.db).Model(&entities.Refund{}).Where("payment_id = ?", paymentID).Count(&total).Error; err != nil {
		logger.Error("Failed to count payment refunds", err)
		return nil, fmt.Errorf("failed to count payment refunds: %w", err)
	}
	if err := conn(ctx, r.db).Where("payment_id = ?", paymentID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&refunds).Error; err != nil {
		logger.Error("Failed to list payment refunds", err)
		return nil, fmt.Errorf("failed to list payment refunds: %w", err)
	}
	return repositories.NewPage(refunds, total, limit, offset), nil
}

func (r *RefundRepositoryImpl) SumSucceededByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	var sum int64
	row := conn(ctx, r.db).Model(&entities.Refund{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payment_id = ? AND status = ?", paymentID, entities.RefundStatusSucceeded).
		Row()
	if err := row.Scan(&sum); err != nil {
		logger.Error("Failed to sum succeeded refunds", err)
		return 0, fmt.Errorf("failed to sum succeeded refunds: %w", err)
	}
	return sum, nil
}
