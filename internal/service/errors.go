package service

import "fmt"

// Error codes surfaced in the {error:{code,message}} envelope.
const (
	CodeMissingToken            = "MISSING_TOKEN"
	CodeCartNotFound            = "CART_NOT_FOUND"
	CodeEmptyCart               = "EMPTY_CART"
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeInsufficientInventory   = "INSUFFICIENT_INVENTORY"
	CodeInvalidDiscount         = "INVALID_DISCOUNT"
	CodeDiscountExpired         = "DISCOUNT_EXPIRED"
	CodeDiscountNotStarted      = "DISCOUNT_NOT_STARTED"
	CodeDiscountLimitReached    = "DISCOUNT_LIMIT_REACHED"
	CodeMinimumNotMet           = "MINIMUM_NOT_MET"
	CodeInvalidShippingRate     = "INVALID_SHIPPING_RATE"
	CodeOrderNotFound           = "ORDER_NOT_FOUND"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeDuplicateRequest        = "DUPLICATE_REQUEST"
	CodeValidation              = "VALIDATION_ERROR"
	CodeServer                  = "SERVER_ERROR"
)

// Error is a coded business error. Handlers map the code to an HTTP
// status and the envelope shape.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errf builds a coded error with a formatted message.
func Errf(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrMissingToken = &Error{Code: CodeMissingToken, Message: "cart token is required"}
	ErrCartNotFound = &Error{Code: CodeCartNotFound, Message: "cart not found"}
	ErrEmptyCart    = &Error{Code: CodeEmptyCart, Message: "cart is empty"}
)
