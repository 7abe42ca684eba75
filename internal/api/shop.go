package api

import (
	"github.com/labstack/echo/v4"

	"storefront-service/internal/config"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
)

// ShopHandler serves static store metadata and the public catalog.
type ShopHandler struct {
	cfg   *config.Config
	store *repository.Store
}

// NewShopHandler creates a new instance of ShopHandler.
func NewShopHandler(cfg *config.Config, store *repository.Store) *ShopHandler {
	return &ShopHandler{cfg: cfg, store: store}
}

// Get handles GET /api/shop.
func (h *ShopHandler) Get(c echo.Context) error {
	return respond(c, 200, map[string]interface{}{
		"name":           h.cfg.StoreName,
		"currency":       h.cfg.Currency,
		"tax_rate":       h.cfg.TaxRate,
		"shipping_rates": h.store.ListShippingRates(c.Request().Context()),
	})
}

// ListProducts handles GET /api/products, active products only.
func (h *ShopHandler) ListProducts(c echo.Context) error {
	all := h.store.ListProducts(c.Request().Context())
	out := all[:0]
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return respondMeta(c, 200, out, map[string]int{"count": len(out)})
}

// GetProduct handles GET /api/products/:id.
func (h *ShopHandler) GetProduct(c echo.Context) error {
	p, err := h.store.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil || !p.Active {
		return respondError(c, service.Errf(service.CodeProductNotFound, "product %s not found", c.Param("id")))
	}
	return respond(c, 200, p)
}
