package service

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"storefront-service/internal/entity"
	"storefront-service/internal/repository"
)

// legal fulfillment transitions; cancellation is only possible before
// the order ships.
var statusTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusPending:    {entity.OrderStatusProcessing, entity.OrderStatusCancelled},
	entity.OrderStatusProcessing: {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:    {entity.OrderStatusDelivered},
}

// OrderService serves order history and the admin-side status machine.
type OrderService struct {
	store       *repository.Store
	kafkaWriter *kafka.Writer
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(store *repository.Store, kafkaWriter *kafka.Writer) *OrderService {
	return &OrderService{store: store, kafkaWriter: kafkaWriter}
}

// Get loads a single order by id.
func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Errf(CodeOrderNotFound, "order %s not found", id)
	}
	return order, err
}

// ListByEmail returns the order history for the demo identity, newest
// first. An unknown email yields an empty list, not an error.
func (s *OrderService) ListByEmail(ctx context.Context, email string) []entity.Order {
	return s.store.ListOrdersByEmail(ctx, email)
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) []entity.Order {
	return s.store.ListOrders(ctx)
}

// UpdateStatus advances an order through the fulfillment machine.
// Cancelling restores the order's inventory.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, status) {
		return nil, Errf(CodeInvalidStatusTransition, "cannot move order from %s to %s", order.Status, status)
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	s.store.SaveOrder(ctx, *order)

	event := "updated"
	if status == entity.OrderStatusCancelled {
		event = "cancelled"
		s.store.RestoreInventory(ctx, order.Items)
	}

	if err := publishOrderEvent(ctx, s.kafkaWriter, order, event); err != nil {
		logger.Error().Err(err).Str("order_id", order.ID).Msg("Error publishing order event")
	}

	return order, nil
}

func transitionAllowed(from, to entity.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
