package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/logging"
	"github.com/example/sidedish/internal/models"
)

type chanNotifier chan models.Order

func (c chanNotifier) NotifyNewOrder(order models.Order) error {
	c <- order
	return nil
}

func draftOrder() models.Order {
	return models.Order{
		Items: []models.OrderItem{
			{Name: "Jollof Rice", Price: 1500, Qty: 2, UserID: "user_1"},
			{Name: "Chapman", Price: 2000, Qty: 1, UserID: "user_1"},
		},
		Total:            1,
		Customer:         &models.UserSummary{ID: "user_1", Name: "Amina", Email: "amina@sidedish.test"},
		Address:          " 12 Bompai Road ",
		State:            "Kano",
		DeliveryOption:   models.DeliveryDelivery,
		PaymentMethod:    models.PaymentCashOnDelivery,
		PaymentConfirmed: true,
	}
}

func newOrderService(t *testing.T, notifier OrderNotifier) *OrderService {
	return NewOrderService(newOrders(t), notifier, logging.Discard(), nil)
}

func TestCreateOrderAssignsServerFields(t *testing.T) {
	svc := newOrderService(t, nil)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	order, err := svc.CreateOrder(context.Background(), draftOrder())
	require.NoError(t, err)

	assert.Equal(t, "1", order.ID)
	assert.Equal(t, 5000.0, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.False(t, order.PaymentConfirmed)
	assert.Equal(t, at, order.CreatedAt)
	assert.Equal(t, "12 Bompai Road", order.Address)
}

func TestCreateOrderSequentialIDs(t *testing.T) {
	svc := newOrderService(t, nil)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		order, err := svc.CreateOrder(ctx, draftOrder())
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(i), order.ID)
	}

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 5)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newOrderService(t, nil)
	ctx := context.Background()

	cases := map[string]func(o *models.Order){
		"no items":        func(o *models.Order) { o.Items = nil },
		"no customer":     func(o *models.Order) { o.Customer = nil },
		"zero quantity":   func(o *models.Order) { o.Items[0].Qty = 0 },
		"blank item name": func(o *models.Order) { o.Items[0].Name = " " },
		"bad delivery":    func(o *models.Order) { o.DeliveryOption = "drone" },
		"bad payment":     func(o *models.Order) { o.PaymentMethod = "crypto" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			draft := draftOrder()
			mutate(&draft)
			_, err := svc.CreateOrder(ctx, draft)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrderNotifies(t *testing.T) {
	notified := make(chanNotifier, 1)
	svc := newOrderService(t, notified)

	order, err := svc.CreateOrder(context.Background(), draftOrder())
	require.NoError(t, err)

	select {
	case got := <-notified:
		assert.Equal(t, order.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestUpdateOrderPaymentIsIdempotent(t *testing.T) {
	svc := newOrderService(t, nil)
	ctx := context.Background()
	order, err := svc.CreateOrder(ctx, draftOrder())
	require.NoError(t, err)

	confirmed := true
	for i := 0; i < 2; i++ {
		updated, err := svc.UpdateOrder(ctx, order.ID, OrderPatch{PaymentConfirmed: &confirmed})
		require.NoError(t, err)
		assert.True(t, updated.PaymentConfirmed)
	}

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.True(t, orders[0].PaymentConfirmed)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := newOrderService(t, nil)
	ctx := context.Background()
	order, err := svc.CreateOrder(ctx, draftOrder())
	require.NoError(t, err)

	status := " Delivered "
	updated, err := svc.UpdateOrder(ctx, order.ID, OrderPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Delivered", updated.Status)
	assert.False(t, updated.PaymentConfirmed)

	blank := ""
	_, err = svc.UpdateOrder(ctx, order.ID, OrderPatch{Status: &blank})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateOrderErrors(t *testing.T) {
	svc := newOrderService(t, nil)
	ctx := context.Background()
	confirmed := true

	_, err := svc.UpdateOrder(ctx, "42", OrderPatch{PaymentConfirmed: &confirmed})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.UpdateOrder(ctx, "42", OrderPatch{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeleteOrder(t *testing.T) {
	svc := newOrderService(t, nil)
	ctx := context.Background()
	first, err := svc.CreateOrder(ctx, draftOrder())
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, draftOrder())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, first.ID))
	assert.True(t, apperr.Is(svc.DeleteOrder(ctx, first.ID), apperr.KindNotFound))

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "2", orders[0].ID)

	next, err := svc.CreateOrder(ctx, draftOrder())
	require.NoError(t, err)
	assert.Equal(t, "3", next.ID)
}
