package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/22smeargle/qzpay/internal/application/billing"
	"github.com/22smeargle/qzpay/internal/domain/entities"
	"github.com/22smeargle/qzpay/pkg/logger"
)

// AddPaymentMethodRequest represents a payment method addition request. Token
// must already be a provider-issued token/source — raw card data is never
// accepted here.
type AddPaymentMethodRequest struct {
	CustomerID         uuid.UUID `json:"customer_id" validate:"required"`
	Provider           string    `json:"provider" validate:"required"`
	Type               string    `json:"type" validate:"required,oneof=card bank_account"`
	ProviderCustomerID string    `json:"provider_customer_id" validate:"required"`
	Token              string    `json:"token" validate:"required"`
	IsDefault          bool      `json:"is_default"`
}

// AddPaymentMethodUseCase handles payment method addition.
type AddPaymentMethodUseCase struct {
	facade *billing.Facade
}

// NewAddPaymentMethodUseCase creates a new AddPaymentMethodUseCase.
func NewAddPaymentMethodUseCase(facade *billing.Facade) *AddPaymentMethodUseCase {
	return &AddPaymentMethodUseCase{facade: facade}
}

// Execute attaches a new payment method to a customer.
func (uc *AddPaymentMethodUseCase) Execute(ctx context.Context, req AddPaymentMethodRequest) (*entities.PaymentMethod, error) {
	logger.Info("Adding payment method", map[string]interface{}{
		"customer_id": req.CustomerID,
		"type":        req.Type,
		"provider":    req.Provider,
	})

	method, err := uc.facade.AddPaymentMethod(ctx, req.CustomerID, req.Provider, req.Type, req.ProviderCustomerID, req.Token, req.IsDefault)
	if err != nil {
		logger.Error("Failed to add payment method", err, map[string]interface{}{
			"customer_id": req.CustomerID,
		})
		return nil, fmt.Errorf("adding payment method: %w", err)
	}

	logger.Info("Payment method added successfully", map[string]interface{}{
		"customer_id":      req.CustomerID,
		"payment_method_id": method.ID,
		"type":             method.Type,
		"is_default":       method.IsDefault,
	})

	return method, nil
}

// ListPaymentMethodsUseCase lists a customer's payment methods.
type ListPaymentMethodsUseCase struct {
	facade *billing.Facade
}

// NewListPaymentMethodsUseCase creates a new ListPaymentMethodsUseCase.
func NewListPaymentMethodsUseCase(facade *billing.Facade) *ListPaymentMethodsUseCase {
	return &ListPaymentMethodsUseCase{facade: facade}
}

// Execute lists a customer's payment methods.
func (uc *ListPaymentMethodsUseCase) Execute(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.PaymentMethod, error) {
	page, err := uc.facade.ListPaymentMethods(ctx, customerID, limit, offset)
	if err != nil {
		logger.Error("Failed to list payment methods", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	return page.Data, nil
}
