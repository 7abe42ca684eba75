package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

// CartService owns cart lifecycle and mutation. One cart per token;
// tokens travel in the X-Cart-Token header.
type CartService struct {
	store *repository.Store
}

// NewCartService creates a new instance of CartService.
func NewCartService(store *repository.Store) *CartService {
	return &CartService{store: store}
}

// Create issues a new empty cart with a fresh token.
func (s *CartService) Create(ctx context.Context) (*entity.Cart, error) {
	now := time.Now()
	cart := entity.Cart{
		Token:     uuid.NewString(),
		Items:     []entity.LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.SaveCart(ctx, cart)
	return &cart, nil
}

// Get loads a cart by token.
func (s *CartService) Get(ctx context.Context, token string) (*entity.Cart, error) {
	cart, err := s.store.GetCart(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCartNotFound
	}
	return cart, err
}

// AddItem puts a product in the cart, snapshotting its current price,
// title and image. Quantities merge with an existing line for the same
// product and are clamped to available inventory at add time.
func (s *CartService) AddItem(ctx context.Context, token, productID string, quantity int) (*entity.Cart, error) {
	if quantity < 1 {
		return nil, Errf(CodeValidation, "quantity must be a positive integer")
	}
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Errf(CodeProductNotFound, "product %s not found", productID)
	}
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, Errf(CodeProductNotFound, "product %s not found", productID)
	}

	available := s.availableFor(ctx, productID)
	if available <= 0 {
		return nil, Errf(CodeInsufficientInventory, "product %s is out of stock", productID)
	}

	existing := -1
	for i, item := range cart.Items {
		if item.ProductID == productID {
			existing = i
			break
		}
	}

	if existing >= 0 {
		cart.Items[existing].Quantity = clamp(cart.Items[existing].Quantity+quantity, available)
	} else {
		cart.Items = append(cart.Items, entity.LineItem{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			Title:     product.Title,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  clamp(quantity, available),
		})
	}

	s.save(ctx, cart)
	return cart, nil
}

// UpdateQuantity sets a line item's quantity; zero removes the line.
// The new quantity is clamped to available inventory.
func (s *CartService) UpdateQuantity(ctx context.Context, token, itemID string, quantity int) (*entity.Cart, error) {
	if quantity < 0 {
		return nil, Errf(CodeValidation, "quantity must not be negative")
	}
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	for i, item := range cart.Items {
		if item.ID != itemID {
			continue
		}
		if quantity == 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			available := s.availableFor(ctx, item.ProductID)
			if available <= 0 {
				return nil, Errf(CodeInsufficientInventory, "product %s is out of stock", item.ProductID)
			}
			cart.Items[i].Quantity = clamp(quantity, available)
		}
		s.save(ctx, cart)
		return cart, nil
	}
	return nil, Errf(CodeValidation, "line item %s is not in the cart", itemID)
}

// RemoveItem drops a line item from the cart.
func (s *CartService) RemoveItem(ctx context.Context, token, itemID string) (*entity.Cart, error) {
	return s.UpdateQuantity(ctx, token, itemID, 0)
}

// Clear empties the cart, keeping the token alive.
func (s *CartService) Clear(ctx context.Context, token string) (*entity.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.Items = []entity.LineItem{}
	cart.DiscountCodes = nil
	cart.ShippingRateID = ""
	s.save(ctx, cart)
	return cart, nil
}

// ApplyDiscount validates a code against the cart's current subtotal
// and records it upper-cased. Invalid codes are rejected outright.
func (s *CartService) ApplyDiscount(ctx context.Context, token, code string) (*entity.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	d, err := s.store.GetDiscountByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Errf(CodeInvalidDiscount, "discount code %q is not valid", code)
	}
	if err != nil {
		return nil, err
	}
	if err := CheckDiscountEligibility(d, subtotalOf(cart.Items), time.Now()); err != nil {
		return nil, err
	}

	for _, existing := range cart.DiscountCodes {
		if existing == d.Code {
			return cart, nil
		}
	}
	cart.DiscountCodes = append(cart.DiscountCodes, d.Code)
	s.save(ctx, cart)
	return cart, nil
}

// RemoveDiscount takes a code off the cart. Unknown codes are a no-op.
func (s *CartService) RemoveDiscount(ctx context.Context, token, code string) (*entity.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	code = strings.ToUpper(code)
	for i, existing := range cart.DiscountCodes {
		if existing == code {
			cart.DiscountCodes = append(cart.DiscountCodes[:i], cart.DiscountCodes[i+1:]...)
			break
		}
	}
	s.save(ctx, cart)
	return cart, nil
}

// SelectShippingRate validates and records the shipping selection.
func (s *CartService) SelectShippingRate(ctx context.Context, token, rateID string) (*entity.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetShippingRate(ctx, rateID); errors.Is(err, repository.ErrNotFound) {
		return nil, Errf(CodeInvalidShippingRate, "shipping rate %q is not valid", rateID)
	} else if err != nil {
		return nil, err
	}
	cart.ShippingRateID = rateID
	s.save(ctx, cart)
	return cart, nil
}

// SetNote replaces the cart's free-form note.
func (s *CartService) SetNote(ctx context.Context, token, note string) (*entity.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.Note = note
	s.save(ctx, cart)
	return cart, nil
}

// SetAttributes merges free-form attributes onto the cart.
func (s *CartService) SetAttributes(ctx context.Context, token string, attrs map[string]string) (*entity.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart.Attributes == nil {
		cart.Attributes = make(map[string]string, len(attrs))
	}
	for k, v := range attrs {
		cart.Attributes[k] = v
	}
	s.save(ctx, cart)
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *entity.Cart) {
	cart.UpdatedAt = time.Now()
	s.store.SaveCart(ctx, *cart)
}

func (s *CartService) availableFor(ctx context.Context, productID string) int {
	rec, err := s.store.GetInventory(ctx, productID)
	if err != nil {
		return 0
	}
	return rec.Available()
}

func subtotalOf(items []entity.LineItem) decimal.Decimal {
	sub := decimal.Zero
	for _, item := range items {
		sub = sub.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sub
}

func clamp(quantity, available int) int {
	if quantity > available {
		return available
	}
	return quantity
}
