package entity

import "time"

// DiscountType enumerates the supported discount strategies.
type DiscountType string

const (
	// DiscountPercentage reduces the subtotal by a percentage.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixedAmount reduces the subtotal by a flat amount, capped at the subtotal.
	DiscountFixedAmount DiscountType = "fixed_amount"
	// DiscountFreeShipping zeroes the shipping charge instead of the subtotal.
	DiscountFreeShipping DiscountType = "free_shipping"
)

// Discount is a redeemable discount code. Codes are stored upper-cased
// and matched case-insensitively.
type Discount struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
	MinPurchase float64      `json:"min_purchase,omitempty"`
	MaxUses     int          `json:"max_uses,omitempty"`
	UsedCount   int          `json:"used_count"`
	StartsAt    *time.Time   `json:"starts_at,omitempty"`
	EndsAt      *time.Time   `json:"ends_at,omitempty"`
	Active      bool         `json:"active"`
}
