package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

// respond wraps a successful payload in the {data} envelope.
func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, map[string]interface{}{"data": data})
}

// respondMeta is respond with an extra meta object.
func respondMeta(c echo.Context, status int, data, meta interface{}) error {
	return c.JSON(status, map[string]interface{}{"data": data, "meta": meta})
}

// respondError maps a coded business error onto the {error:{code,
// message}} envelope; anything uncoded becomes SERVER_ERROR 500.
func respondError(c echo.Context, err error) error {
	var coded *service.Error
	if errors.As(err, &coded) {
		return c.JSON(statusFor(coded.Code), map[string]interface{}{
			"error": map[string]string{"code": coded.Code, "message": coded.Message},
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]string{"code": service.CodeServer, "message": "unexpected server error"},
	})
}

func statusFor(code string) int {
	switch code {
	case service.CodeMissingToken, service.CodeValidation, service.CodeInvalidShippingRate:
		return http.StatusBadRequest
	case service.CodeCartNotFound, service.CodeProductNotFound, service.CodeOrderNotFound:
		return http.StatusNotFound
	case service.CodeDuplicateRequest:
		return http.StatusConflict
	case service.CodeEmptyCart, service.CodeInsufficientInventory,
		service.CodeInvalidDiscount, service.CodeDiscountExpired,
		service.CodeDiscountNotStarted, service.CodeDiscountLimitReached,
		service.CodeMinimumNotMet, service.CodeInvalidStatusTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
