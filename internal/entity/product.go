package entity

// Product is a catalog item. The price here is the current list price;
// carts and orders snapshot it at add time.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags,omitempty"`
	Active      bool     `json:"active"`
}
