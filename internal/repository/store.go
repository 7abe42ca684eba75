package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront-service/internal/entity"
)

var (
	// ErrNotFound is returned for any lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientInventory is returned when a checkout commit asks
	// for more units than are available.
	ErrInsufficientInventory = errors.New("insufficient inventory")
)

// Store holds every entity in process memory. All access goes through
// its methods; a single RWMutex serializes writers so the
// check-then-decrement sequence at checkout cannot oversell. State is
// seeded at construction and lost on restart.
type Store struct {
	mu            sync.RWMutex
	products      map[string]entity.Product
	inventory     map[string]entity.InventoryRecord
	discounts     map[string]entity.Discount
	discountCodes map[string]string // UPPER(code) -> discount id
	shippingRates map[string]entity.ShippingRate
	carts         map[string]entity.Cart
	orders        map[string]entity.Order
	customers     map[string]entity.Customer // lower(email) -> customer
}

// NewStore creates a store pre-loaded with the sample catalog.
func NewStore() *Store {
	s := NewEmptyStore()
	s.seed()
	return s
}

// NewEmptyStore creates a store with no seed data.
func NewEmptyStore() *Store {
	return &Store{
		products:      make(map[string]entity.Product),
		inventory:     make(map[string]entity.InventoryRecord),
		discounts:     make(map[string]entity.Discount),
		discountCodes: make(map[string]string),
		shippingRates: make(map[string]entity.ShippingRate),
		carts:         make(map[string]entity.Cart),
		orders:        make(map[string]entity.Order),
		customers:     make(map[string]entity.Customer),
	}
}

// --- products ---

func (s *Store) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) []entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) PutProduct(ctx context.Context, p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// --- inventory ---

func (s *Store) GetInventory(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.inventory[productID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// SetInventory replaces the on-hand quantity for a product.
func (s *Store) SetInventory(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return ErrNotFound
	}
	rec := s.inventory[productID]
	rec.ProductID = productID
	rec.Quantity = quantity
	s.inventory[productID] = rec
	return nil
}

// RestoreInventory adds the line item quantities back, used when an
// order is cancelled.
func (s *Store) RestoreInventory(ctx context.Context, items []entity.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		rec := s.inventory[item.ProductID]
		rec.ProductID = item.ProductID
		rec.Quantity += item.Quantity
		s.inventory[item.ProductID] = rec
	}
}

// --- discounts ---

func (s *Store) GetDiscount(ctx context.Context, id string) (*entity.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.discounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

// GetDiscountByCode matches case-insensitively.
func (s *Store) GetDiscountByCode(ctx context.Context, code string) (*entity.Discount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.discountCodes[strings.ToUpper(code)]
	if !ok {
		return nil, ErrNotFound
	}
	d := s.discounts[id]
	return &d, nil
}

func (s *Store) PutDiscount(ctx context.Context, d entity.Discount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Code = strings.ToUpper(d.Code)
	s.discounts[d.ID] = d
	s.discountCodes[d.Code] = d.ID
}

// --- shipping rates ---

func (s *Store) GetShippingRate(ctx context.Context, id string) (*entity.ShippingRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.shippingRates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListShippingRates(ctx context.Context) []entity.ShippingRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.ShippingRate, 0, len(s.shippingRates))
	for _, r := range s.shippingRates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

func (s *Store) PutShippingRate(ctx context.Context, r entity.ShippingRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shippingRates[r.ID] = r
}

// --- carts ---

func (s *Store) GetCart(ctx context.Context, token string) (*entity.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[token]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneCart(c)
	return &clone, nil
}

func (s *Store) SaveCart(ctx context.Context, c entity.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.Token] = cloneCart(c)
}

func (s *Store) DeleteCart(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, token)
}

// --- orders ---

func (s *Store) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneOrder(o)
	return &clone, nil
}

func (s *Store) SaveOrder(ctx context.Context, o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
}

func (s *Store) ListOrders(ctx context.Context) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sortOrders(out)
	return out
}

func (s *Store) ListOrdersByEmail(ctx context.Context, email string) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	var out []entity.Order
	for _, o := range s.orders {
		if strings.ToLower(o.Email) == email {
			out = append(out, cloneOrder(o))
		}
	}
	sortOrders(out)
	return out
}

// --- customers ---

func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// --- checkout commit ---

// CommitCheckout finalizes an order in one serialized step: validate
// availability for every line, decrement inventory, persist the order,
// bump the discount use count, update the customer aggregate and drop
// the cart. Holding the write lock for the whole sequence guarantees
// two concurrent checkouts cannot both claim the last unit.
func (s *Store) CommitCheckout(ctx context.Context, order entity.Order, cartToken, discountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range order.Items {
		rec, ok := s.inventory[item.ProductID]
		if !ok || rec.Available() < item.Quantity {
			return fmt.Errorf("product %s: %w", item.ProductID, ErrInsufficientInventory)
		}
	}

	for _, item := range order.Items {
		rec := s.inventory[item.ProductID]
		rec.Quantity -= item.Quantity
		s.inventory[item.ProductID] = rec
	}

	s.orders[order.ID] = cloneOrder(order)

	if discountID != "" {
		if d, ok := s.discounts[discountID]; ok {
			d.UsedCount++
			s.discounts[discountID] = d
		}
	}

	key := strings.ToLower(order.Email)
	cust, ok := s.customers[key]
	if !ok {
		cust = entity.Customer{
			ID:        uuid.NewString(),
			Email:     order.Email,
			FirstName: order.ShippingAddress.FirstName,
			LastName:  order.ShippingAddress.LastName,
			CreatedAt: time.Now(),
		}
	}
	cust.OrderCount++
	cust.TotalSpent += order.Total
	cust.UpdatedAt = time.Now()
	s.customers[key] = cust

	delete(s.carts, cartToken)
	return nil
}

func cloneCart(c entity.Cart) entity.Cart {
	out := c
	out.Items = append([]entity.LineItem(nil), c.Items...)
	out.DiscountCodes = append([]string(nil), c.DiscountCodes...)
	if c.Attributes != nil {
		out.Attributes = make(map[string]string, len(c.Attributes))
		for k, v := range c.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

func cloneOrder(o entity.Order) entity.Order {
	out := o
	out.Items = append([]entity.LineItem(nil), o.Items...)
	return out
}

func sortOrders(orders []entity.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
