package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

// CheckoutService prices carts and turns them into orders. Order
// finalization runs as one serialized store commit so concurrent
// checkouts against the same product cannot oversell.
type CheckoutService struct {
	store       *repository.Store
	calc        *Calculator
	kafkaWriter *kafka.Writer
	rdb         *redis.Client

	// fallback idempotency set when no redis client is configured
	mu       sync.Mutex
	seenKeys map[string]struct{}
}

// NewCheckoutService creates a new instance of CheckoutService. Both
// kafkaWriter and rdb may be nil: events are then skipped and the
// idempotency guard falls back to an in-process set.
func NewCheckoutService(store *repository.Store, calc *Calculator, kafkaWriter *kafka.Writer, rdb *redis.Client) *CheckoutService {
	return &CheckoutService{
		store:       store,
		calc:        calc,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
		seenKeys:    make(map[string]struct{}),
	}
}

// CheckoutInput carries the customer contact and destination collected
// by the checkout form.
type CheckoutInput struct {
	Email           string         `json:"email"`
	ShippingAddress entity.Address `json:"shipping_address"`
}

// Start opens a checkout for a cart: the cart must exist and hold at
// least one item. Returns the cart snapshot and its current pricing;
// nothing is persisted.
func (s *CheckoutService) Start(ctx context.Context, token string) (*entity.Cart, *Totals, error) {
	cart, err := s.store.GetCart(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrCartNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}
	totals, err := s.calc.ComputeTotals(ctx, cart.Items, cart.DiscountCode(), cart.ShippingRateID)
	if err != nil {
		return nil, nil, err
	}
	return cart, totals, nil
}

// Calculate prices the cart identified by token without persisting
// anything.
func (s *CheckoutService) Calculate(ctx context.Context, token string) (*Totals, error) {
	cart, err := s.store.GetCart(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.calc.ComputeTotals(ctx, cart.Items, cart.DiscountCode(), cart.ShippingRateID)
}

// Complete finalizes a checkout: validates the input and the cart,
// prices it, then commits "check inventory, decrement, create order,
// bump discount and customer, clear cart" as one serialized step.
// Validation failures abort before any mutation.
func (s *CheckoutService) Complete(ctx context.Context, token, idempotentKey string, in CheckoutInput) (*entity.Order, error) {
	if err := validateCheckoutInput(in); err != nil {
		return nil, err
	}

	cart, err := s.store.GetCart(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	totals, err := s.calc.ComputeTotals(ctx, cart.Items, cart.DiscountCode(), cart.ShippingRateID)
	if err != nil {
		return nil, err
	}
	breakdown := totals.Breakdown()

	if idempotentKey != "" {
		fresh, err := s.claimIdempotentKey(ctx, idempotentKey)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, Errf(CodeDuplicateRequest, "checkout already submitted with this idempotent key")
		}
	}

	now := time.Now()
	order := entity.Order{
		ID:              uuid.NewString(),
		Email:           in.Email,
		Items:           cart.Items,
		Subtotal:        breakdown.Subtotal,
		Discount:        breakdown.Discount,
		Shipping:        breakdown.Shipping,
		Tax:             breakdown.Tax,
		Total:           breakdown.Total,
		Currency:        breakdown.Currency,
		ShippingRateID:  cart.ShippingRateID,
		ShippingAddress: in.ShippingAddress,
		Status:          entity.OrderStatusPending,
		IdempotentKey:   idempotentKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	discountID := ""
	if totals.AppliedDiscount != nil {
		order.DiscountCode = totals.AppliedDiscount.Code
		discountID = totals.AppliedDiscount.ID
	}

	if err := s.store.CommitCheckout(ctx, order, token, discountID); err != nil {
		if errors.Is(err, repository.ErrInsufficientInventory) {
			return nil, Errf(CodeInsufficientInventory, "%s", err.Error())
		}
		return nil, err
	}

	// The order is committed; a failed publish must not undo it.
	if err := publishOrderEvent(ctx, s.kafkaWriter, &order, "created"); err != nil {
		logger.Error().Err(err).Str("order_id", order.ID).Msg("Error publishing order event")
	}

	return &order, nil
}

func validateCheckoutInput(in CheckoutInput) error {
	var missing []string
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		missing = append(missing, "email")
	}
	addr := in.ShippingAddress
	for _, field := range []struct{ name, value string }{
		{"first_name", addr.FirstName},
		{"last_name", addr.LastName},
		{"address1", addr.Address1},
		{"city", addr.City},
		{"country", addr.Country},
		{"zip", addr.Zip},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return Errf(CodeValidation, "missing or invalid fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// claimIdempotentKey reports whether the key is seen for the first
// time. With redis configured the claim survives across instances;
// otherwise an in-process set covers the single-process case.
func (s *CheckoutService) claimIdempotentKey(ctx context.Context, key string) (bool, error) {
	if s.rdb == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, dup := s.seenKeys[key]; dup {
			return false, nil
		}
		s.seenKeys[key] = struct{}{}
		return true, nil
	}

	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	ok, err := s.rdb.SetNX(ctx, redisKey, "exists", 24*time.Hour).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// publishOrderEvent emits an order lifecycle event keyed
// order-<event>-<id>. A nil writer skips publishing.
func publishOrderEvent(ctx context.Context, w *kafka.Writer, order *entity.Order, event string) error {
	if w == nil {
		return nil
	}
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", event, order.ID)),
		Value: orderJSON,
	}
	return w.WriteMessages(ctx, msg)
}
