package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// StatusCode returns the HTTP status code
func (e *AppError) StatusCode() int {
	return e.Code
}

// NewAppError creates a new application error
func NewAppError(code int, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined application errors
var (
	// Validation errors
	ErrValidationFailed = NewAppError(http.StatusBadRequest, "Validation failed", "")
	ErrInvalidInput     = NewAppError(http.StatusBadRequest, "Invalid input", "")
	ErrRequiredField    = NewAppError(http.StatusBadRequest, "Required field is missing", "")

	// Authorization errors
	ErrForbidden         = NewAppError(http.StatusForbidden, "Forbidden", "")
	ErrInsufficientPerms = NewAppError(http.StatusForbidden, "Insufficient permissions", "")

	// Not found errors
	ErrNotFound             = NewAppError(http.StatusNotFound, "Resource not found", "")
	ErrCustomerNotFound     = NewAppError(http.StatusNotFound, "Customer not found", "")
	ErrPlanNotFound         = NewAppError(http.StatusNotFound, "Plan not found", "")
	ErrPriceNotFound        = NewAppError(http.StatusNotFound, "Price not found", "")
	ErrSubscriptionNotFound = NewAppError(http.StatusNotFound, "Subscription not found", "")
	ErrPaymentNotFound      = NewAppError(http.StatusNotFound, "Payment not found", "")
	ErrPromoCodeNotFound    = NewAppError(http.StatusNotFound, "Promo code not found", "")
	ErrInvoiceNotFound      = NewAppError(http.StatusNotFound, "Invoice not found", "")

	// Conflict errors
	ErrConflict           = NewAppError(http.StatusConflict, "Resource conflict", "")
	ErrCustomerExists     = NewAppError(http.StatusConflict, "Customer already exists", "")
	ErrPromoCodeExists    = NewAppError(http.StatusConflict, "Promo code already exists", "")
	ErrPromoCodeRedeemed  = NewAppError(http.StatusConflict, "Promo code redemption limit reached", "")
	ErrSubscriptionExists = NewAppError(http.StatusConflict, "Customer already has an active subscription to this plan", "")

	// Rate limiting errors
	ErrRateLimitExceeded = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded", "")
	ErrTooManyRequests   = NewAppError(http.StatusTooManyRequests, "Too many requests", "")

	// Business logic / validation errors (§7)
	ErrBusinessLogic     = NewAppError(http.StatusUnprocessableEntity, "Business logic error", "")
	ErrInvalidOperation  = NewAppError(http.StatusUnprocessableEntity, "Invalid operation", "")
	ErrInvalidPlan       = NewAppError(http.StatusBadRequest, "Invalid plan", "")
	ErrInvalidPrice      = NewAppError(http.StatusBadRequest, "Invalid price", "")
	ErrInvalidCurrency   = NewAppError(http.StatusBadRequest, "Unsupported or mismatched currency", "")
	ErrInvalidDiscount   = NewAppError(http.StatusBadRequest, "Invalid discount configuration", "")
	ErrLimitExceeded     = NewAppError(http.StatusUnprocessableEntity, "Usage limit exceeded", "")
	ErrEntitlementDenied = NewAppError(http.StatusForbidden, "Entitlement not granted", "")

	// Payment errors
	ErrPayment         = NewAppError(http.StatusPaymentRequired, "Payment required", "")
	ErrSubscription    = NewAppError(http.StatusPaymentRequired, "Subscription required", "")
	ErrPaymentFailed   = NewAppError(http.StatusPaymentRequired, "Payment failed", "")
	ErrPaymentDeclined = NewAppError(http.StatusPaymentRequired, "Payment declined by provider", "")
	ErrRefundFailed    = NewAppError(http.StatusUnprocessableEntity, "Refund failed", "")

	// Provider / external service errors
	ErrExternalService     = NewAppError(http.StatusBadGateway, "External service error", "")
	ErrProviderUnavailable = NewAppError(http.StatusBadGateway, "Payment provider unavailable", "")
	ErrProviderRejected    = NewAppError(http.StatusBadGateway, "Payment provider rejected the request", "")

	// Webhook/IPN security errors (§7)
	ErrInvalidSignature      = NewAppError(http.StatusUnauthorized, "Invalid webhook signature", "")
	ErrWebhookReplayRejected = NewAppError(http.StatusConflict, "Webhook timestamp outside tolerance window", "")
	ErrMalformedWebhook      = NewAppError(http.StatusBadRequest, "Malformed webhook payload", "")

	// Database errors
	ErrDatabase         = NewAppError(http.StatusInternalServerError, "Database error", "")
	ErrConnectionFailed = NewAppError(http.StatusInternalServerError, "Database connection failed", "")
	ErrQueryFailed      = NewAppError(http.StatusInternalServerError, "Database query failed", "")

	// Internal server errors
	ErrInternalServer     = NewAppError(http.StatusInternalServerError, "Internal server error", "")
	ErrServiceUnavailable = NewAppError(http.StatusServiceUnavailable, "Service unavailable", "")
	ErrTimeout            = NewAppError(http.StatusRequestTimeout, "Request timeout", "")
)

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) *AppError {
	if IsAppError(err) {
		appErr := GetAppError(err)
		return NewAppError(appErr.Code, message, appErr.Error())
	}
	return NewAppError(http.StatusInternalServerError, message, err.Error())
}

// NewValidationError creates a validation error with field details
func NewValidationError(field, message string) *AppError {
	return NewAppError(http.StatusBadRequest, "Validation failed", fmt.Sprintf("%s: %s", field, message))
}

// NewNotFoundError creates a not found error for a specific resource
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, fmt.Sprintf("%s not found", resource), "")
}

// NewConflictError creates a conflict error with a specific message
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, "")
}

// NewForbiddenError creates a forbidden error with a specific message
func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, "")
}

// NewInternalError creates an internal server error with a specific message
func NewInternalError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, "")
}

// NewExternalServiceError creates an external service error with a specific message
func NewExternalServiceError(service, message string) *AppError {
	return NewAppError(http.StatusBadGateway, fmt.Sprintf("%s provider error", service), message)
}

// NewPaymentDeclinedError creates a payment-declined error carrying the provider's reason
func NewPaymentDeclinedError(reason string) *AppError {
	return NewAppError(http.StatusPaymentRequired, "Payment declined by provider", reason)
}

// NewInvalidSignatureError creates a webhook signature validation error
func NewInvalidSignatureError(details string) *AppError {
	return NewAppError(http.StatusUnauthorized, "Invalid webhook signature", details)
}

// NewWebhookReplayRejectedError creates an error for a webhook delivery
// whose timestamp falls outside the configured tolerance window.
func NewWebhookReplayRejectedError(details string) *AppError {
	return NewAppError(http.StatusConflict, "Webhook timestamp outside tolerance window", details)
}

// NewMalformedWebhookError creates an error for a webhook payload that
// failed to parse after its signature verified.
func NewMalformedWebhookError(details string) *AppError {
	return NewAppError(http.StatusBadRequest, "Malformed webhook payload", details)
}

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeAuthorization   ErrorType = "authorization"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeRateLimit       ErrorType = "rate_limit"
	ErrorTypeBusinessLogic   ErrorType = "business_logic"
	ErrorTypePayment         ErrorType = "payment"
	ErrorTypeExternalService ErrorType = "external_service"
	ErrorTypeDatabase        ErrorType = "database"
	ErrorTypeInternal        ErrorType = "internal"
)

// GetErrorType returns the type of error
func GetErrorType(err error) ErrorType {
	if !IsAppError(err) {
		return ErrorTypeInternal
	}

	appErr := GetAppError(err)
	switch appErr.Code {
	case http.StatusBadRequest:
		return ErrorTypeValidation
	case http.StatusForbidden, http.StatusUnauthorized:
		return ErrorTypeAuthorization
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusConflict:
		return ErrorTypeConflict
	case http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case http.StatusUnprocessableEntity:
		return ErrorTypeBusinessLogic
	case http.StatusPaymentRequired:
		return ErrorTypePayment
	case http.StatusBadGateway:
		return ErrorTypeExternalService
	case http.StatusInternalServerError:
		return ErrorTypeInternal
	case http.StatusServiceUnavailable:
		return ErrorTypeExternalService
	case http.StatusRequestTimeout:
		return ErrorTypeInternal
	default:
		return ErrorTypeInternal
	}
}
