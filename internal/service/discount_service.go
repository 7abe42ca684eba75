package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// DiscountService validates discount codes without applying them.
type DiscountService struct {
	store *repository.Store
}

// NewDiscountService creates a new instance of DiscountService.
func NewDiscountService(store *repository.Store) *DiscountService {
	return &DiscountService{store: store}
}

// DiscountValidation is the result of validating a code against a
// hypothetical subtotal.
type DiscountValidation struct {
	Code           string              `json:"code"`
	Type           entity.DiscountType `json:"type"`
	DiscountAmount float64             `json:"discount_amount"`
}

// Validate looks up a discount by id or code and reports the amount it
// would deduct from the given subtotal. Nothing is applied and no use
// count changes.
func (s *DiscountService) Validate(ctx context.Context, idOrCode string, subtotal float64) (*DiscountValidation, error) {
	d, err := s.store.GetDiscount(ctx, idOrCode)
	if errors.Is(err, repository.ErrNotFound) {
		d, err = s.store.GetDiscountByCode(ctx, idOrCode)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Errf(CodeInvalidDiscount, "discount %q is not valid", idOrCode)
	}
	if err != nil {
		return nil, err
	}

	sub := decimal.NewFromFloat(subtotal)
	if err := CheckDiscountEligibility(d, sub, time.Now()); err != nil {
		logger.Warn().Str("code", d.Code).Err(err).Msg("Discount failed validation")
		return nil, err
	}

	amount := decimal.Zero
	switch d.Type {
	case entity.DiscountPercentage:
		amount = sub.Mul(decimal.NewFromFloat(d.Value)).Div(decimal.NewFromInt(100))
	case entity.DiscountFixedAmount:
		amount = decimal.NewFromFloat(d.Value)
		if amount.GreaterThan(sub) {
			amount = sub
		}
	case entity.DiscountFreeShipping:
		// Deducts from shipping at checkout, not from the subtotal.
	}

	return &DiscountValidation{
		Code:           d.Code,
		Type:           d.Type,
		DiscountAmount: roundCents(amount),
	}, nil
}

// CheckDiscountEligibility enforces the active flag, the validity
// window, the use limit and the minimum purchase, in that order.
func CheckDiscountEligibility(d *entity.Discount, subtotal decimal.Decimal, now time.Time) error {
	if !d.Active {
		return Errf(CodeInvalidDiscount, "discount code %q is not valid", d.Code)
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return Errf(CodeDiscountNotStarted, "discount code %q is not active yet", d.Code)
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return Errf(CodeDiscountExpired, "discount code %q has expired", d.Code)
	}
	if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
		return Errf(CodeDiscountLimitReached, "discount code %q has reached its use limit", d.Code)
	}
	if d.MinPurchase > 0 && subtotal.LessThan(decimal.NewFromFloat(d.MinPurchase)) {
		return Errf(CodeMinimumNotMet, "discount code %q requires a minimum purchase of %.2f", d.Code, d.MinPurchase)
	}
	return nil
}
