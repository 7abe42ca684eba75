package main

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"storefront-service/internal/api"
	"storefront-service/internal/config"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
)

func main() {
	cfg := config.Load()

	store := repository.NewStore()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
	}

	kafkaWriter := config.NewKafkaWriter("order-events")

	calc := service.NewCalculator(store, cfg.TaxRate, cfg.Currency)
	cartService := service.NewCartService(store)
	checkoutService := service.NewCheckoutService(store, calc, kafkaWriter, rdb)
	discountService := service.NewDiscountService(store)
	orderService := service.NewOrderService(store, kafkaWriter)

	cartHandler := api.NewCartHandler(cartService)
	checkoutHandler := api.NewCheckoutHandler(checkoutService)
	discountHandler := api.NewDiscountHandler(discountService)
	orderHandler := api.NewOrderHandler(orderService)
	adminHandler := api.NewAdminHandler(store, orderService)
	shopHandler := api.NewShopHandler(cfg, store)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     50,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.POST("/api/cart", cartHandler.Post)
	e.GET("/api/cart", cartHandler.Get)
	e.PUT("/api/cart", cartHandler.Put)
	e.DELETE("/api/cart", cartHandler.Delete)

	e.POST("/api/checkout", checkoutHandler.Post)

	e.GET("/api/discounts/:id", discountHandler.Get)

	e.GET("/api/shop", shopHandler.Get)
	e.GET("/api/products", shopHandler.ListProducts)
	e.GET("/api/products/:id", shopHandler.GetProduct)

	e.GET("/api/orders", orderHandler.List)
	e.GET("/api/orders/:id", orderHandler.Get)

	e.GET("/admin/orders", adminHandler.ListOrders)
	e.PUT("/admin/orders/:id/status", adminHandler.UpdateOrderStatus)
	e.PUT("/admin/inventory/:productId", adminHandler.UpdateInventory)
	e.GET("/admin/products", adminHandler.ListProducts)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "storefront-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
