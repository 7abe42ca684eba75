package service

import (
	"context"
	"testing"
)

func TestCartService_CreateIssuesToken(t *testing.T) {
	svc := NewCartService(newTestStore())

	cart, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if cart.Token == "" {
		t.Fatal("expected a non-empty cart token")
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}

	loaded, err := svc.Get(context.Background(), cart.Token)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.Token != cart.Token {
		t.Errorf("token mismatch: %s vs %s", loaded.Token, cart.Token)
	}
}

func TestCartService_GetUnknownToken(t *testing.T) {
	svc := NewCartService(newTestStore())

	_, err := svc.Get(context.Background(), "no-such-token")
	assertCode(t, err, CodeCartNotFound)
}

func TestCartService_AddItemSnapshotsProduct(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)

	cart, err := svc.AddItem(ctx, cart.Token, "prod-tote", 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	line := cart.Items[0]
	if line.Price != 24.99 || line.Title != "Canvas Tote Bag" || line.Quantity != 2 {
		t.Errorf("snapshot mismatch: %+v", line)
	}
}

func TestCartService_AddItemMergesLines(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)

	svc.AddItem(ctx, cart.Token, "prod-tote", 2)
	cart, err := svc.AddItem(ctx, cart.Token, "prod-tote", 3)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestCartService_AddItemClampsToAvailable(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)

	// prod-mug has 3 available
	cart, err := svc.AddItem(ctx, cart.Token, "prod-mug", 10)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("expected clamp to 3, got %d", cart.Items[0].Quantity)
	}
}

func TestCartService_AddItemOutOfStock(t *testing.T) {
	store := newTestStore()
	svc := NewCartService(store)
	ctx := context.Background()
	cart, _ := svc.Create(ctx)

	store.SetInventory(ctx, "prod-mug", 0)
	_, err := svc.AddItem(ctx, cart.Token, "prod-mug", 1)
	assertCode(t, err, CodeInsufficientInventory)
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)

	_, err := svc.AddItem(ctx, cart.Token, "prod-bogus", 1)
	assertCode(t, err, CodeProductNotFound)
}

func TestCartService_UpdateQuantityZeroRemoves(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)
	cart, _ = svc.AddItem(ctx, cart.Token, "prod-tote", 2)
	itemID := cart.Items[0].ID

	cart, err := svc.UpdateQuantity(ctx, cart.Token, itemID, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected line removed, got %d lines", len(cart.Items))
	}
}

func TestCartService_UpdateQuantityClamps(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)
	cart, _ = svc.AddItem(ctx, cart.Token, "prod-mug", 1)
	itemID := cart.Items[0].ID

	cart, err := svc.UpdateQuantity(ctx, cart.Token, itemID, 99)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("expected clamp to 3, got %d", cart.Items[0].Quantity)
	}
}

func TestCartService_Clear(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)
	svc.AddItem(ctx, cart.Token, "prod-tote", 1)
	svc.ApplyDiscount(ctx, cart.Token, "BLESSED30")

	cart, err := svc.Clear(ctx, cart.Token)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(cart.Items) != 0 || len(cart.DiscountCodes) != 0 || cart.ShippingRateID != "" {
		t.Errorf("cart not cleared: %+v", cart)
	}
}

func TestCartService_ApplyDiscountUppercases(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)
	svc.AddItem(ctx, cart.Token, "prod-tote", 2)

	cart, err := svc.ApplyDiscount(ctx, cart.Token, "blessed30")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(cart.DiscountCodes) != 1 || cart.DiscountCodes[0] != "BLESSED30" {
		t.Errorf("expected stored code BLESSED30, got %v", cart.DiscountCodes)
	}

	// applying again is a no-op, not a duplicate
	cart, _ = svc.ApplyDiscount(ctx, cart.Token, "BLESSED30")
	if len(cart.DiscountCodes) != 1 {
		t.Errorf("expected single code, got %v", cart.DiscountCodes)
	}
}

func TestCartService_ApplyInvalidDiscount(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)
	svc.AddItem(ctx, cart.Token, "prod-tote", 1)

	_, err := svc.ApplyDiscount(ctx, cart.Token, "NOSUCHCODE")
	assertCode(t, err, CodeInvalidDiscount)
}

func TestCartService_ApplyDiscountBelowMinimum(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)
	svc.AddItem(ctx, cart.Token, "prod-tote", 1) // subtotal 24.99 < 50 minimum

	_, err := svc.ApplyDiscount(ctx, cart.Token, "SAVE15")
	assertCode(t, err, CodeMinimumNotMet)
}

func TestCartService_RemoveDiscount(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)
	svc.AddItem(ctx, cart.Token, "prod-tote", 2)
	svc.ApplyDiscount(ctx, cart.Token, "BLESSED30")

	cart, err := svc.RemoveDiscount(ctx, cart.Token, "blessed30")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.DiscountCodes) != 0 {
		t.Errorf("expected no codes, got %v", cart.DiscountCodes)
	}
}

func TestCartService_SelectShippingRate(t *testing.T) {
	svc := NewCartService(newTestStore())
	ctx := context.Background()
	cart, _ := svc.Create(ctx)

	cart, err := svc.SelectShippingRate(ctx, cart.Token, "rate-standard")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if cart.ShippingRateID != "rate-standard" {
		t.Errorf("expected rate-standard, got %s", cart.ShippingRateID)
	}

	_, err = svc.SelectShippingRate(ctx, cart.Token, "rate-bogus")
	assertCode(t, err, CodeInvalidShippingRate)
}
