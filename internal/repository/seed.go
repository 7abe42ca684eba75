package repository

import (
	"time"

	"storefront-service/internal/entity"
)

// seed loads the sample catalog, discounts, shipping rates and
// inventory. Runs once at construction; callers hold no lock yet.
func (s *Store) seed() {
	products := []entity.Product{
		{ID: "prod-001", Title: "Canvas Tote Bag", Description: "Heavy-duty cotton canvas tote.", Price: 24.99, Image: "/images/tote.jpg", Tags: []string{"bags"}, Active: true},
		{ID: "prod-002", Title: "Enamel Mug", Description: "12oz camping mug with rolled rim.", Price: 14.50, Image: "/images/mug.jpg", Tags: []string{"kitchen"}, Active: true},
		{ID: "prod-003", Title: "Wool Beanie", Description: "Merino wool, one size.", Price: 19.00, Image: "/images/beanie.jpg", Tags: []string{"apparel"}, Active: true},
		{ID: "prod-004", Title: "Field Notebook", Description: "48-page dot grid, pack of three.", Price: 12.75, Image: "/images/notebook.jpg", Tags: []string{"stationery"}, Active: true},
		{ID: "prod-005", Title: "Water Bottle", Description: "750ml insulated stainless steel.", Price: 32.00, Image: "/images/bottle.jpg", Tags: []string{"kitchen"}, Active: true},
		{ID: "prod-006", Title: "Desk Mat", Description: "Vegetable-tanned leather, 80x30cm.", Price: 54.00, Image: "/images/deskmat.jpg", Tags: []string{"office"}, Active: true},
		{ID: "prod-007", Title: "Keychain Light", Description: "Rechargeable 150-lumen keychain light.", Price: 21.50, Image: "/images/light.jpg", Tags: []string{"gear"}, Active: true},
		{ID: "prod-008", Title: "Linen Apron", Description: "Stonewashed linen with leather straps.", Price: 48.00, Image: "/images/apron.jpg", Tags: []string{"kitchen"}, Active: false},
	}
	stock := map[string]int{
		"prod-001": 120, "prod-002": 80, "prod-003": 45, "prod-004": 200,
		"prod-005": 60, "prod-006": 25, "prod-007": 150, "prod-008": 0,
	}
	for _, p := range products {
		s.products[p.ID] = p
		s.inventory[p.ID] = entity.InventoryRecord{ProductID: p.ID, Quantity: stock[p.ID]}
	}

	now := time.Now()
	lastYear := now.AddDate(-1, 0, 0)
	lastMonth := now.AddDate(0, -1, 0)
	nextMonth := now.AddDate(0, 1, 0)
	nextYear := now.AddDate(1, 0, 0)
	discounts := []entity.Discount{
		{ID: "disc-blessed30", Code: "BLESSED30", Type: entity.DiscountPercentage, Value: 30, Active: true},
		{ID: "disc-welcome10", Code: "WELCOME10", Type: entity.DiscountPercentage, Value: 10, MaxUses: 500, Active: true},
		{ID: "disc-save15", Code: "SAVE15", Type: entity.DiscountFixedAmount, Value: 15, MinPurchase: 50, Active: true},
		{ID: "disc-freeship", Code: "FREESHIP", Type: entity.DiscountFreeShipping, Value: 0, Active: true},
		{ID: "disc-summer20", Code: "SUMMER20", Type: entity.DiscountPercentage, Value: 20, StartsAt: &lastYear, EndsAt: &lastMonth, Active: true},
		{ID: "disc-next25", Code: "NEXT25", Type: entity.DiscountPercentage, Value: 25, StartsAt: &nextMonth, EndsAt: &nextYear, Active: true},
	}
	for _, d := range discounts {
		s.discounts[d.ID] = d
		s.discountCodes[d.Code] = d.ID
	}

	freeOver := 75.0
	rates := []entity.ShippingRate{
		{ID: "rate-standard", Name: "Standard", Price: 5.99, EstimatedDays: "5-7 business days"},
		{ID: "rate-economy", Name: "Economy", Price: 3.99, MinOrderAmount: &freeOver, EstimatedDays: "7-10 business days"},
		{ID: "rate-express", Name: "Express", Price: 14.99, EstimatedDays: "1-2 business days"},
	}
	for _, r := range rates {
		s.shippingRates[r.ID] = r
	}
}
