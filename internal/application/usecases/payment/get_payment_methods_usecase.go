package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// GetDefaultPaymentMethodUseCase retrieves a customer's default payment
// method.
type GetDefaultPaymentMethodUseCase struct {
	facade *billing.Facade
}

// NewGetDefaultPaymentMethodUseCase creates a new GetDefaultPaymentMethodUseCase.
func NewGetDefaultPaymentMethodUseCase(facade *billing.Facade) *GetDefaultPaymentMethodUseCase {
	return &GetDefaultPaymentMethodUseCase{facade: facade}
}

// Execute retrieves a customer's default payment method.
func (uc *GetDefaultPaymentMethodUseCase) Execute(ctx context.Context, customerID uuid.UUID) (*entities.PaymentMethod, error) {
	logger.Info("Getting customer default payment method", map[string]interface{}{
		"customer_id": customerID,
	})

	method, err := uc.facade.GetDefaultPaymentMethod(ctx, customerID)
	if err != nil {
		logger.Error("Failed to get customer default payment method", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	return method, nil
}

// DeletePaymentMethodUseCase deletes a customer's payment method.
type DeletePaymentMethodUseCase struct {
	facade *billing.Facade
}

// NewDeletePaymentMethodUseCase creates a new DeletePaymentMethodUseCase.
func NewDeletePaymentMethodUseCase(facade *billing.Facade) *DeletePaymentMethodUseCase {
	return &DeletePaymentMethodUseCase{facade: facade}
}

// Execute deletes a customer's payment method.
func (uc *DeletePaymentMethodUseCase) Execute(ctx context.Context, customerID, paymentMethodID uuid.UUID) error {
	logger.Info("Deleting payment method", map[string]interface{}{
		"customer_id":        customerID,
		"payment_method_id": paymentMethodID,
	})

	if err := uc.facade.DeletePaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		logger.Error("Failed to delete payment method", err, map[string]interface{}{
			"customer_id":        customerID,
			"payment_method_id": paymentMethodID,
		})
		return fmt.Errorf("deleting payment method: %w", err)
	}

	logger.Info("Payment method deleted successfully", map[string]interface{}{
		"customer_id":        customerID,
		"payment_method_id": paymentMethodID,
	})
	return nil
}

// SetDefaultPaymentMethodUseCase makes a payment method a customer's
// default.
type SetDefaultPaymentMethodUseCase struct {
	facade *billing.Facade
}

// NewSetDefaultPaymentMethodUseCase creates a new SetDefaultPaymentMethodUseCase.
func NewSetDefaultPaymentMethodUseCase(facade *billing.Facade) *SetDefaultPaymentMethodUseCase {
	return &SetDefaultPaymentMethodUseCase{facade: facade}
}

// Execute makes paymentMethodID the customer's default payment method.
func (uc *SetDefaultPaymentMethodUseCase) Execute(ctx context.Context, customerID, paymentMethodID uuid.UUID) error {
	logger.Info("Setting default payment method", map[string]interface{}{
		"customer_id":       customerID,
		"payment_method_id": paymentMethodID,
	})

	if err := uc.facade.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		logger.Error("Failed to set default payment method", err, map[string]interface{}{
			"customer_id":       customerID,
			"payment_method_id": paymentMethodID,
		})
		return fmt.Errorf("setting default payment method: %w", err)
	}

	logger.Info("Default payment method set successfully", map[string]interface{}{
		"customer_id":       customerID,
		"payment_method_id": paymentMethodID,
	})
	return nil
}
