package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
)

// AdminHandler serves the /admin dashboard endpoints. Same demo
// identity model as the rest of the API; no real auth.
type AdminHandler struct {
	store        *repository.Store
	orderService *service.OrderService
}

// NewAdminHandler creates a new instance of AdminHandler.
func NewAdminHandler(store *repository.Store, orderService *service.OrderService) *AdminHandler {
	return &AdminHandler{store: store, orderService: orderService}
}

// ListOrders handles GET /admin/orders.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders := h.orderService.ListAll(c.Request().Context())
	return respondMeta(c, 200, orders, map[string]int{"count": len(orders)})
}

type statusRequest struct {
	Status entity.OrderStatus `json:"status"`
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status.
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	req := statusRequest{}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return respondError(c, service.Errf(service.CodeValidation, "status is required"))
	}
	order, err := h.orderService.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, 200, order)
}

type inventoryRequest struct {
	Quantity *int `json:"quantity"`
}

// UpdateInventory handles PUT /admin/inventory/:productId.
func (h *AdminHandler) UpdateInventory(c echo.Context) error {
	req := inventoryRequest{}
	if err := c.Bind(&req); err != nil || req.Quantity == nil || *req.Quantity < 0 {
		return respondError(c, service.Errf(service.CodeValidation, "quantity must be a non-negative integer"))
	}
	ctx := c.Request().Context()
	productID := c.Param("productId")
	if err := h.store.SetInventory(ctx, productID, *req.Quantity); err != nil {
		return respondError(c, service.Errf(service.CodeProductNotFound, "product %s not found", productID))
	}
	rec, err := h.store.GetInventory(ctx, productID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, 200, rec)
}

type adminProduct struct {
	entity.Product
	Inventory *entity.InventoryRecord `json:"inventory,omitempty"`
}

// ListProducts handles GET /admin/products, pairing each product with
// its inventory record.
func (h *AdminHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	products := h.store.ListProducts(ctx)
	out := make([]adminProduct, 0, len(products))
	for _, p := range products {
		rec, _ := h.store.GetInventory(ctx, p.ID)
		out = append(out, adminProduct{Product: p, Inventory: rec})
	}
	return respondMeta(c, 200, out, map[string]int{"count": len(out)})
}
