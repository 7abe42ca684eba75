package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

// DiscountHandler serves /api/discounts.
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new instance of DiscountHandler.
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// Get handles GET /api/discounts/:id?action=validate&subtotal=...,
// reporting what the code would deduct without applying it.
func (h *DiscountHandler) Get(c echo.Context) error {
	if c.QueryParam("action") != "validate" {
		return respondError(c, service.Errf(service.CodeValidation, "unknown action %q", c.QueryParam("action")))
	}

	subtotal, err := strconv.ParseFloat(c.QueryParam("subtotal"), 64)
	if err != nil || subtotal < 0 {
		return respondError(c, service.Errf(service.CodeValidation, "subtotal must be a non-negative number"))
	}

	result, err := h.discountService.Validate(c.Request().Context(), c.Param("id"), subtotal)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, 200, result)
}
