package service

import (
	"context"
	"testing"
)

func TestDiscountValidate_ByCode(t *testing.T) {
	svc := NewDiscountService(newTestStore())

	result, err := svc.Validate(context.Background(), "blessed30", 100)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.Code != "BLESSED30" || result.DiscountAmount != 30 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestDiscountValidate_ByID(t *testing.T) {
	svc := NewDiscountService(newTestStore())

	result, err := svc.Validate(context.Background(), "d-blessed", 50)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.DiscountAmount != 15 {
		t.Errorf("expected 15, got %v", result.DiscountAmount)
	}
}

func TestDiscountValidate_FixedCapped(t *testing.T) {
	svc := NewDiscountService(newTestStore())

	result, err := svc.Validate(context.Background(), "BIGFIXED", 40)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.DiscountAmount != 40 {
		t.Errorf("expected cap at subtotal 40, got %v", result.DiscountAmount)
	}
}

func TestDiscountValidate_FreeShippingAmountIsZero(t *testing.T) {
	svc := NewDiscountService(newTestStore())

	result, err := svc.Validate(context.Background(), "FREESHIP", 100)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.DiscountAmount != 0 {
		t.Errorf("free shipping deducts nothing from the subtotal, got %v", result.DiscountAmount)
	}
}

func TestDiscountValidate_ErrorPaths(t *testing.T) {
	svc := NewDiscountService(newTestStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		idOrCode string
		subtotal float64
		want     string
	}{
		{"unknown", "NOSUCHCODE", 100, CodeInvalidDiscount},
		{"inactive", "SWITCHEDOFF", 100, CodeInvalidDiscount},
		{"expired", "OLDCODE", 100, CodeDiscountExpired},
		{"not started", "SOONCODE", 100, CodeDiscountNotStarted},
		{"limit reached", "MAXED", 100, CodeDiscountLimitReached},
		{"minimum not met", "SAVE15", 30, CodeMinimumNotMet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(ctx, tt.idOrCode, tt.subtotal)
			assertCode(t, err, tt.want)
		})
	}
}

func TestDiscountValidate_DoesNotApply(t *testing.T) {
	store := newTestStore()
	svc := NewDiscountService(store)

	if _, err := svc.Validate(context.Background(), "BLESSED30", 100); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	d, _ := store.GetDiscount(context.Background(), "d-blessed")
	if d.UsedCount != 0 {
		t.Errorf("validate must not bump the use count, got %d", d.UsedCount)
	}
}
