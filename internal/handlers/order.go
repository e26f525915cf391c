package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/models"
	"github.com/example/sidedish/internal/services"
	"github.com/example/sidedish/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type updateOrderRequest struct {
	PaymentConfirmed *bool   `json:"payment_confirmed"`
	Status           *string `json:"status"`
}

// CreateOrder accepts a checkout submission. No session is required.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var draft models.Order
	if err := c.BodyParser(&draft); err != nil {
		return apperr.Validation("invalid order data")
	}

	order, err := h.orders.CreateOrder(c.UserContext(), draft)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// ListOrders returns every order, or one page of them when page/limit are
// given.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.UserContext())
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.Set("X-Total-Count", strconv.Itoa(len(orders)))
	return c.JSON(utils.Paginate(orders, utils.ParsePagination(c)))
}

// UpdateOrder sets payment_confirmed and/or status.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid value")
	}

	order, err := h.orders.UpdateOrder(c.UserContext(), c.Params("id"), services.OrderPatch{
		PaymentConfirmed: req.PaymentConfirmed,
		Status:           req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// DeleteOrder removes an order.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	if err := h.orders.DeleteOrder(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}
