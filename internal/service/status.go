package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/Skotchmaster/food_delivery/pkg/logging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const EventOrderStatusChanged = "order_status_changed"

type OrderStatusChanged struct {
	Type       string             `json:"type"`
	OrderID    uuid.UUID          `json:"orderID"`
	CustomerID uuid.UUID          `json:"customerID"`
	From       models.OrderStatus `json:"from"`
	To         models.OrderStatus `json:"to"`
	At         time.Time          `json:"at"`
}

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPreparing:      {models.StatusOutForDelivery, models.StatusCompleted, models.StatusCancelled},
	models.StatusOutForDelivery: {models.StatusCompleted, models.StatusCancelled},
}

func ValidStatusTransition(from, to models.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CompleteNextPreparingOrder marks the oldest preparing order as completed and
// returns how many orders changed. No preparing order is not an error.
func (s *FoodService) CompleteNextPreparingOrder(ctx context.Context) (int64, error) {
	l := logging.FromContext(ctx).With("op", "orders.complete_next")

	order, err := s.Repo.FirstOrderByStatus(ctx, models.StatusPreparing)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Info("no_preparing_order")
			return 0, nil
		}
		return 0, fmt.Errorf("find preparing order: %w", err)
	}

	n, err := s.Repo.SetOrderStatus(ctx, order.ID, models.StatusPreparing, models.StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("update order status: %w", err)
	}
	if n > 0 {
		s.publishStatusChange(ctx, order, models.StatusPreparing, models.StatusCompleted)
	}
	l.Info("order_completed", "order_id", order.ID, "modified", n)
	return n, nil
}

func (s *FoodService) ChangeOrderStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	if !schema.ValidStatus(to) {
		return nil, validationf("unknown status %q", to)
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	from := order.Status
	if !ValidStatusTransition(from, to) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, from, to)
	}

	n, err := s.Repo.SetOrderStatus(ctx, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: order %s changed concurrently", ErrConflict, id)
	}

	order.Status = to
	s.publishStatusChange(ctx, order, from, to)
	return order, nil
}

func (s *FoodService) publishStatusChange(ctx context.Context, o *models.Order, from, to models.OrderStatus) {
	if s.Producer == nil {
		return
	}
	event := OrderStatusChanged{
		Type:       EventOrderStatusChanged,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		From:       from,
		To:         to,
		At:         time.Now().UTC(),
	}
	if err := s.Producer.PublishEvent(ctx, s.OrderTopic, o.ID.String(), event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", event.Type, "order_id", o.ID, "error", err)
	}
}
