package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string            `json:"error"`
	Message       string            `json:"message"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	Retryable     bool              `json:"retryable,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeLineNotFound        = "LINE_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeCheckoutInProgress  = "CHECKOUT_IN_PROGRESS"
	ErrCodePaymentFailed       = "PAYMENT_FAILED"
	ErrCodeCatalogUnavailable  = "CATALOG_UNAVAILABLE"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidCartQuantity = "INVALID_QUANTITY"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidSession      = "INVALID_SESSION"
	ErrCodeCartUnavailable     = "CART_UNAVAILABLE"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found in catalog")
	ErrLineNotFound       = NewDomainError(ErrCodeLineNotFound, "Product is not in the cart")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrCheckoutInProgress = NewDomainError(ErrCodeCheckoutInProgress, "A payment for this cart is already being processed")
	ErrUnauthenticated    = NewDomainError(ErrCodeUnauthorised, "Sign in required")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "Admin access required")
)
