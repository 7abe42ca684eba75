package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

// Calculator turns a cart snapshot into a priced order breakdown. It is
// a pure function of its inputs plus store lookups: no mutation, same
// output for the same inputs until the store changes underneath it.
type Calculator struct {
	store    *repository.Store
	taxRate  decimal.Decimal
	currency string
}

// NewCalculator creates a calculator with the configured tax rate
// (fraction, e.g. 0.08) and currency code.
func NewCalculator(store *repository.Store, taxRate float64, currency string) *Calculator {
	return &Calculator{
		store:    store,
		taxRate:  decimal.NewFromFloat(taxRate),
		currency: currency,
	}
}

// Totals is the full-precision price breakdown. Display rounding is
// deferred to Breakdown so intermediate arithmetic never loses cents.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Currency string

	// AppliedDiscount is the discount the breakdown reflects, nil when
	// no code was supplied.
	AppliedDiscount *entity.Discount
}

// Breakdown is the rounded, wire-ready view of a Totals. Rounding is
// applied exactly once, here: subtotal, discount and shipping round
// half-up to cents, tax is floored to the cent, and the total rounds
// half-up from the unrounded sum rather than from the rounded fields.
type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

func (t *Totals) Breakdown() Breakdown {
	return Breakdown{
		Subtotal: roundCents(t.Subtotal),
		Discount: roundCents(t.Discount),
		Shipping: roundCents(t.Shipping),
		Tax:      floorCents(t.Tax),
		Total:    roundCents(t.Total),
		Currency: t.Currency,
	}
}

func roundCents(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func floorCents(d decimal.Decimal) float64 {
	f, _ := d.RoundFloor(2).Float64()
	return f
}

// ComputeTotals prices the given line items with an optional discount
// code and shipping rate selection.
//
// Rules, in order:
//  1. subtotal = sum(price * quantity)
//  2. discount: percentage applies to the subtotal, fixed_amount is
//     capped at the subtotal, free_shipping zeroes the shipping charge
//     and leaves the subtotal alone. An unknown, inactive or
//     ineligible code is a hard error, never a silent zero.
//  3. shipping: an unknown rate id is a hard error; a rate with a
//     minimum order amount ships free once (subtotal - discount)
//     reaches it.
//  4. tax applies to (subtotal - discount); shipping is not taxed.
//  5. total = subtotal - discount + shipping + tax, never negative.
func (c *Calculator) ComputeTotals(ctx context.Context, items []entity.LineItem, discountCode, shippingRateID string) (*Totals, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	discountAmount := decimal.Zero
	freeShipping := false
	var applied *entity.Discount
	if discountCode != "" {
		d, err := c.store.GetDiscountByCode(ctx, discountCode)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Errf(CodeInvalidDiscount, "discount code %q is not valid", discountCode)
		}
		if err != nil {
			return nil, err
		}
		if err := CheckDiscountEligibility(d, subtotal, time.Now()); err != nil {
			return nil, err
		}
		applied = d

		switch d.Type {
		case entity.DiscountPercentage:
			discountAmount = subtotal.Mul(decimal.NewFromFloat(d.Value)).Div(decimal.NewFromInt(100))
		case entity.DiscountFixedAmount:
			discountAmount = decimal.NewFromFloat(d.Value)
			if discountAmount.GreaterThan(subtotal) {
				discountAmount = subtotal
			}
		case entity.DiscountFreeShipping:
			freeShipping = true
		default:
			return nil, Errf(CodeInvalidDiscount, "discount code %q has unknown type %q", discountCode, d.Type)
		}
	}

	discounted := subtotal.Sub(discountAmount)

	shippingCost := decimal.Zero
	if shippingRateID != "" {
		rate, err := c.store.GetShippingRate(ctx, shippingRateID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Errf(CodeInvalidShippingRate, "shipping rate %q is not valid", shippingRateID)
		}
		if err != nil {
			return nil, err
		}
		shippingCost = decimal.NewFromFloat(rate.Price)
		if rate.MinOrderAmount != nil && discounted.GreaterThanOrEqual(decimal.NewFromFloat(*rate.MinOrderAmount)) {
			shippingCost = decimal.Zero
		}
	}
	if freeShipping {
		shippingCost = decimal.Zero
	}

	tax := discounted.Mul(c.taxRate)
	total := discounted.Add(shippingCost).Add(tax)

	return &Totals{
		Subtotal:        subtotal,
		Discount:        discountAmount,
		Shipping:        shippingCost,
		Tax:             tax,
		Total:           total,
		Currency:        c.currency,
		AppliedDiscount: applied,
	}, nil
}
