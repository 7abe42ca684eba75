package entity

// ShippingRate is a named, priced delivery option. When MinOrderAmount
// is set, orders at or above it ship free at this rate.
type ShippingRate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	MinOrderAmount *float64 `json:"min_order_amount,omitempty"`
	EstimatedDays  string   `json:"estimated_days,omitempty"`
}
