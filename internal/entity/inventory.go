package entity

// InventoryRecord tracks stock per product.
type InventoryRecord struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reserved  int    `json:"reserved"`
}

// Available is the quantity that can still be sold.
func (r InventoryRecord) Available() int {
	return r.Quantity - r.Reserved
}
