package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

// HeaderCustomerEmail is the demo identity header; there is no real
// authentication in this storefront.
const HeaderCustomerEmail = "X-Customer-Email"

// OrderHandler serves the customer-facing /api/orders endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles GET /api/orders for the demo identity.
func (h *OrderHandler) List(c echo.Context) error {
	email := c.Request().Header.Get(HeaderCustomerEmail)
	if email == "" {
		return respondError(c, service.Errf(service.CodeValidation, "%s header is required", HeaderCustomerEmail))
	}
	orders := h.orderService.ListByEmail(c.Request().Context(), email)
	return respondMeta(c, 200, orders, map[string]int{"count": len(orders)})
}

// Get handles GET /api/orders/:id; the order must belong to the
// requesting identity.
func (h *OrderHandler) Get(c echo.Context) error {
	email := c.Request().Header.Get(HeaderCustomerEmail)
	if email == "" {
		return respondError(c, service.Errf(service.CodeValidation, "%s header is required", HeaderCustomerEmail))
	}
	order, err := h.orderService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !strings.EqualFold(order.Email, email) {
		return respondError(c, service.Errf(service.CodeOrderNotFound, "order %s not found", c.Param("id")))
	}
	return respond(c, 200, order)
}
