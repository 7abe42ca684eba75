package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/service"
)

// HeaderCartToken identifies the cart on every call after creation.
const HeaderCartToken = "X-Cart-Token"

// CartHandler serves /api/cart.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new instance of CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartPostRequest struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type cartPutRequest struct {
	Updates            map[string]int    `json:"updates,omitempty"`
	DiscountCode       string            `json:"discount_code,omitempty"`
	RemoveDiscountCode string            `json:"remove_discount_code,omitempty"`
	ShippingRateID     string            `json:"shipping_rate_id,omitempty"`
	Note               *string           `json:"note,omitempty"`
	Attributes         map[string]string `json:"attributes,omitempty"`
}

// Post handles POST /api/cart with action=create|add.
func (h *CartHandler) Post(c echo.Context) error {
	ctx := c.Request().Context()
	req := cartPostRequest{}
	if err := c.Bind(&req); err != nil {
		return respondError(c, service.Errf(service.CodeValidation, "invalid request payload"))
	}

	switch req.Action {
	case "create":
		cart, err := h.cartService.Create(ctx)
		if err != nil {
			return respondError(c, err)
		}
		return respondMeta(c, 201, cart, map[string]string{"token": cart.Token})
	case "add":
		token := c.Request().Header.Get(HeaderCartToken)
		if token == "" {
			return respondError(c, service.ErrMissingToken)
		}
		cart, err := h.cartService.AddItem(ctx, token, req.ProductID, req.Quantity)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, 200, cart)
	default:
		return respondError(c, service.Errf(service.CodeValidation, "unknown action %q", req.Action))
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c echo.Context) error {
	token := c.Request().Header.Get(HeaderCartToken)
	if token == "" {
		return respondError(c, service.ErrMissingToken)
	}
	cart, err := h.cartService.Get(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, 200, cart)
}

// Put handles PUT /api/cart: quantity updates, discount apply/remove,
// shipping selection and note/attributes, in one call.
func (h *CartHandler) Put(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.Request().Header.Get(HeaderCartToken)
	if token == "" {
		return respondError(c, service.ErrMissingToken)
	}

	req := cartPutRequest{}
	if err := c.Bind(&req); err != nil {
		return respondError(c, service.Errf(service.CodeValidation, "invalid request payload"))
	}

	var cart *entity.Cart
	var err error
	for itemID, quantity := range req.Updates {
		if cart, err = h.cartService.UpdateQuantity(ctx, token, itemID, quantity); err != nil {
			return respondError(c, err)
		}
	}
	if req.DiscountCode != "" {
		if cart, err = h.cartService.ApplyDiscount(ctx, token, req.DiscountCode); err != nil {
			return respondError(c, err)
		}
	}
	if req.RemoveDiscountCode != "" {
		if cart, err = h.cartService.RemoveDiscount(ctx, token, req.RemoveDiscountCode); err != nil {
			return respondError(c, err)
		}
	}
	if req.ShippingRateID != "" {
		if cart, err = h.cartService.SelectShippingRate(ctx, token, req.ShippingRateID); err != nil {
			return respondError(c, err)
		}
	}
	if req.Note != nil {
		if cart, err = h.cartService.SetNote(ctx, token, *req.Note); err != nil {
			return respondError(c, err)
		}
	}
	if len(req.Attributes) > 0 {
		if cart, err = h.cartService.SetAttributes(ctx, token, req.Attributes); err != nil {
			return respondError(c, err)
		}
	}

	if cart == nil {
		if cart, err = h.cartService.Get(ctx, token); err != nil {
			return respondError(c, err)
		}
	}
	return respond(c, 200, cart)
}

// Delete handles DELETE /api/cart by clearing the cart in place.
func (h *CartHandler) Delete(c echo.Context) error {
	token := c.Request().Header.Get(HeaderCartToken)
	if token == "" {
		return respondError(c, service.ErrMissingToken)
	}
	cart, err := h.cartService.Clear(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, 200, cart)
}
