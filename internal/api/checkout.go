package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/service"
)

// CheckoutHandler serves /api/checkout.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new instance of CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

type checkoutRequest struct {
	Action string `json:"action"`
	service.CheckoutInput
}

// Post handles POST /api/checkout with action=calculate|complete.
func (h *CheckoutHandler) Post(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.Request().Header.Get(HeaderCartToken)
	if token == "" {
		return respondError(c, service.ErrMissingToken)
	}

	req := checkoutRequest{}
	if err := c.Bind(&req); err != nil {
		return respondError(c, service.Errf(service.CodeValidation, "invalid request payload"))
	}

	switch req.Action {
	case "create":
		cart, totals, err := h.checkoutService.Start(ctx, token)
		if err != nil {
			return respondError(c, err)
		}
		return respondMeta(c, 200, cart, totals.Breakdown())
	case "calculate":
		totals, err := h.checkoutService.Calculate(ctx, token)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, 200, totals.Breakdown())
	case "complete":
		idempotentKey := c.Request().Header.Get("Idempotent-Key")
		order, err := h.checkoutService.Complete(ctx, token, idempotentKey, req.CheckoutInput)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, 201, order)
	default:
		return respondError(c, service.Errf(service.CodeValidation, "unknown action %q", req.Action))
	}
}
