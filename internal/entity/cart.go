package entity

import "time"

// LineItem is a product-quantity pairing inside a cart or order.
// Price, title and image are snapshotted from the catalog when the
// item is added and are not re-fetched afterwards.
type LineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is one shopper's cart, identified by an opaque token passed in
// the X-Cart-Token header.
type Cart struct {
	Token          string            `json:"token"`
	Items          []LineItem        `json:"items"`
	DiscountCodes  []string          `json:"discount_codes,omitempty"`
	ShippingRateID string            `json:"shipping_rate_id,omitempty"`
	Note           string            `json:"note,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DiscountCode returns the code the calculator should apply, the first
// applied code, or "" when none is applied.
func (c Cart) DiscountCode() string {
	if len(c.DiscountCodes) == 0 {
		return ""
	}
	return c.DiscountCodes[0]
}
