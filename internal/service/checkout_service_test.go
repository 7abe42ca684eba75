package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

func validInput() CheckoutInput {
	return CheckoutInput{
		Email: "shopper@example.com",
		ShippingAddress: entity.Address{
			FirstName: "Alex",
			LastName:  "Doe",
			Address1:  "1 Main St",
			City:      "Springfield",
			Country:   "US",
			Zip:       "12345",
		},
	}
}

func newCheckoutFixture(t *testing.T) (*repository.Store, *CartService, *CheckoutService) {
	t.Helper()
	store := newTestStore()
	calc := newTestCalculator(store)
	return store, NewCartService(store), NewCheckoutService(store, calc, nil, nil)
}

func cartWith(t *testing.T, carts *CartService, productID string, qty int) string {
	t.Helper()
	ctx := context.Background()
	cart, err := carts.Create(ctx)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := carts.AddItem(ctx, cart.Token, productID, qty); err != nil {
		t.Fatalf("add item: %v", err)
	}
	return cart.Token
}

func TestComplete_Success(t *testing.T) {
	store, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()
	token := cartWith(t, carts, "prod-tote", 2)
	carts.ApplyDiscount(ctx, token, "BLESSED30")
	carts.SelectShippingRate(ctx, token, "rate-standard")

	order, err := checkout.Complete(ctx, token, "", validInput())
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if order.Status != entity.OrderStatusPending {
		t.Errorf("expected pending, got %s", order.Status)
	}
	if order.Subtotal != 49.98 || order.Discount != 14.99 || order.Shipping != 5.99 || order.Tax != 2.79 || order.Total != 43.77 {
		t.Errorf("unexpected breakdown on order: %+v", order)
	}
	if order.DiscountCode != "BLESSED30" {
		t.Errorf("expected discount code recorded, got %q", order.DiscountCode)
	}

	// inventory decremented
	rec, _ := store.GetInventory(ctx, "prod-tote")
	if rec.Quantity != 98 {
		t.Errorf("expected 98 units left, got %d", rec.Quantity)
	}

	// discount use count bumped
	d, _ := store.GetDiscount(ctx, "d-blessed")
	if d.UsedCount != 1 {
		t.Errorf("expected use count 1, got %d", d.UsedCount)
	}

	// customer aggregate created
	cust, err := store.GetCustomerByEmail(ctx, "shopper@example.com")
	if err != nil {
		t.Fatalf("customer not created: %v", err)
	}
	if cust.OrderCount != 1 || cust.TotalSpent != order.Total {
		t.Errorf("customer aggregate wrong: %+v", cust)
	}

	// cart cleared
	if _, err := store.GetCart(ctx, token); err == nil {
		t.Error("expected cart to be gone after checkout")
	}

	// order persisted
	if _, err := store.GetOrder(ctx, order.ID); err != nil {
		t.Errorf("order not persisted: %v", err)
	}
}

func TestComplete_ValidationAbortsBeforeMutation(t *testing.T) {
	store, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()
	token := cartWith(t, carts, "prod-tote", 2)

	in := validInput()
	in.Email = ""
	in.ShippingAddress.Zip = ""
	_, err := checkout.Complete(ctx, token, "", in)
	assertCode(t, err, CodeValidation)

	rec, _ := store.GetInventory(ctx, "prod-tote")
	if rec.Quantity != 100 {
		t.Errorf("inventory mutated on failed validation: %d", rec.Quantity)
	}
	if _, err := store.GetCart(ctx, token); err != nil {
		t.Error("cart should survive a failed checkout")
	}
}

func TestStart_RefusesEmptyCart(t *testing.T) {
	_, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()
	cart, _ := carts.Create(ctx)

	_, _, err := checkout.Start(ctx, cart.Token)
	assertCode(t, err, CodeEmptyCart)
}

func TestStart_ReturnsCartAndPricing(t *testing.T) {
	_, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()
	token := cartWith(t, carts, "prod-tote", 2)

	cart, totals, err := checkout.Start(ctx, token)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if cart.Token != token {
		t.Errorf("expected cart %s, got %s", token, cart.Token)
	}
	if totals.Breakdown().Subtotal != 49.98 {
		t.Errorf("expected subtotal 49.98, got %v", totals.Breakdown().Subtotal)
	}
}

func TestComplete_EmptyCart(t *testing.T) {
	_, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()
	cart, _ := carts.Create(ctx)

	_, err := checkout.Complete(ctx, cart.Token, "", validInput())
	assertCode(t, err, CodeEmptyCart)
}

func TestComplete_UnknownCart(t *testing.T) {
	_, _, checkout := newCheckoutFixture(t)

	_, err := checkout.Complete(context.Background(), "no-such-token", "", validInput())
	assertCode(t, err, CodeCartNotFound)
}

func TestComplete_DuplicateIdempotentKey(t *testing.T) {
	_, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()

	first := cartWith(t, carts, "prod-tote", 1)
	if _, err := checkout.Complete(ctx, first, "key-1", validInput()); err != nil {
		t.Fatalf("first complete failed: %v", err)
	}

	second := cartWith(t, carts, "prod-tote", 1)
	_, err := checkout.Complete(ctx, second, "key-1", validInput())
	assertCode(t, err, CodeDuplicateRequest)
}

func TestComplete_InsufficientInventoryAtCommit(t *testing.T) {
	store, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()
	token := cartWith(t, carts, "prod-mug", 3)

	// stock drains between add and complete
	store.SetInventory(ctx, "prod-mug", 1)

	_, err := checkout.Complete(ctx, token, "", validInput())
	assertCode(t, err, CodeInsufficientInventory)
}

func TestComplete_ConcurrentCheckoutsCannotOversell(t *testing.T) {
	store, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()

	// prod-last has exactly one unit; every cart wants it
	const shoppers = 10
	tokens := make([]string, shoppers)
	for i := range tokens {
		tokens[i] = cartWith(t, carts, "prod-last", 1)
	}

	var successCount, failCount atomic.Int32
	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			_, err := checkout.Complete(ctx, token, "", validInput())
			if err == nil {
				successCount.Add(1)
				return
			}
			var coded *Error
			if !errors.As(err, &coded) || coded.Code != CodeInsufficientInventory {
				t.Errorf("expected INSUFFICIENT_INVENTORY, got: %v", err)
			}
			failCount.Add(1)
		}(token)
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 successful checkout, got %d", successCount.Load())
	}
	if failCount.Load() != shoppers-1 {
		t.Errorf("expected %d rejections, got %d", shoppers-1, failCount.Load())
	}

	rec, _ := store.GetInventory(ctx, "prod-last")
	if rec.Quantity != 0 {
		t.Errorf("expected zero stock, got %d", rec.Quantity)
	}
}

func TestCalculate_DoesNotMutate(t *testing.T) {
	store, carts, checkout := newCheckoutFixture(t)
	ctx := context.Background()
	token := cartWith(t, carts, "prod-tote", 2)
	carts.ApplyDiscount(ctx, token, "BLESSED30")

	totals, err := checkout.Calculate(ctx, token)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if totals.Breakdown().Discount != 14.99 {
		t.Errorf("expected discount 14.99, got %v", totals.Breakdown().Discount)
	}

	rec, _ := store.GetInventory(ctx, "prod-tote")
	if rec.Quantity != 100 {
		t.Errorf("calculate must not touch inventory, got %d", rec.Quantity)
	}
	d, _ := store.GetDiscount(ctx, "d-blessed")
	if d.UsedCount != 0 {
		t.Errorf("calculate must not bump use counts, got %d", d.UsedCount)
	}
}
