package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/metrics"
	"github.com/example/sidedish/internal/models"
	"github.com/example/sidedish/internal/storage"
)

// OrderNotifier is told about every accepted order.
type OrderNotifier interface {
	NotifyNewOrder(order models.Order) error
}

// OrderPatch lists the mutable order fields. Nil fields are left alone.
type OrderPatch struct {
	PaymentConfirmed *bool
	Status           *string
}

// OrderService validates and persists orders.
type OrderService struct {
	orders   storage.Collection[models.Order]
	notifier OrderNotifier
	logger   *logrus.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewOrderService constructs an OrderService. notifier may be nil.
func NewOrderService(orders storage.Collection[models.Order], notifier OrderNotifier, logger *logrus.Logger, m *metrics.Metrics) *OrderService {
	return &OrderService{
		orders:   orders,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// CreateOrder validates draft, assigns the next sequential id and stores it.
// Server-owned fields (id, total, status, created_at, payment_confirmed) are
// overwritten.
func (s *OrderService) CreateOrder(ctx context.Context, draft models.Order) (*models.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	order := draft
	order.Address = strings.TrimSpace(order.Address)
	order.State = strings.TrimSpace(order.State)
	order.Total = models.ItemsTotal(order.Items)
	order.Status = models.StatusPending
	order.PaymentConfirmed = false
	order.CreatedAt = s.now().UTC()

	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		order.ID = models.NextOrderID(orders)
		return append(orders, order), nil
	})
	if err != nil {
		return nil, apperr.Internal("error saving order", err)
	}

	s.metrics.OrderCreated(order.Total)
	s.logger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": order.Customer.ID,
		"total":       order.Total,
		"items_count": len(order.Items),
	}).Info("order created")

	if s.notifier != nil {
		go s.notify(order)
	}
	return &order, nil
}

func (s *OrderService) notify(order models.Order) {
	if err := s.notifier.NotifyNewOrder(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("order notification failed")
	}
}

// ListOrders returns every stored order.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.Load(ctx)
	if err != nil {
		return nil, apperr.Internal("error fetching orders", err)
	}
	return orders, nil
}

// UpdateOrder applies patch to the order with the given id.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, patch OrderPatch) (*models.Order, error) {
	if patch.PaymentConfirmed == nil && patch.Status == nil {
		return nil, apperr.Validation("invalid value")
	}
	var status string
	if patch.Status != nil {
		status = strings.TrimSpace(*patch.Status)
		if status == "" {
			return nil, apperr.Validation("invalid status")
		}
	}

	var updated models.Order
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		idx := models.FindOrder(orders, id)
		if idx < 0 {
			return nil, apperr.NotFound("order not found")
		}
		if patch.PaymentConfirmed != nil {
			orders[idx].PaymentConfirmed = *patch.PaymentConfirmed
		}
		if patch.Status != nil {
			orders[idx].Status = status
		}
		updated = orders[idx]
		return orders, nil
	})
	if err != nil {
		return nil, wrapStoreError(err, "error updating status")
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":          updated.ID,
		"payment_confirmed": updated.PaymentConfirmed,
		"status":            updated.Status,
	}).Info("order updated")
	return &updated, nil
}

// DeleteOrder removes the order with the given id.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		idx := models.FindOrder(orders, id)
		if idx < 0 {
			return nil, apperr.NotFound("order not found")
		}
		return append(orders[:idx:idx], orders[idx+1:]...), nil
	})
	if err != nil {
		return wrapStoreError(err, "error deleting order")
	}
	s.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

func validateDraft(draft models.Order) error {
	if len(draft.Items) == 0 || draft.Customer == nil {
		return apperr.Validation("invalid order data")
	}
	for _, item := range draft.Items {
		if strings.TrimSpace(item.Name) == "" || item.Qty < 1 || item.Price < 0 {
			return apperr.Validation("invalid order item")
		}
	}
	if draft.DeliveryOption != "" && !models.ValidDeliveryOption(draft.DeliveryOption) {
		return apperr.Validation("invalid delivery option")
	}
	if draft.PaymentMethod != "" && !models.ValidPaymentMethod(draft.PaymentMethod) {
		return apperr.Validation("invalid payment method")
	}
	return nil
}
