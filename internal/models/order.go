package models

import (
	"strconv"
	"time"
)

// Delivery options.
const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"
)

// Payment methods.
const (
	PaymentCashOnDelivery = "cash-on-delivery"
	PaymentCard           = "card-payment"
	PaymentBankTransfer   = "bank-transfer"
)

// StatusPending is the status of every newly created order.
const StatusPending = "Pending"

// Order is a checkout submission stored in the orders collection.
type Order struct {
	ID               string       `json:"id"`
	Items            []OrderItem  `json:"items"`
	Total            float64      `json:"total"`
	Customer         *UserSummary `json:"customer"`
	Address          string       `json:"address"`
	State            string       `json:"state"`
	DeliveryOption   string       `json:"delivery_option"`
	PaymentMethod    string       `json:"payment_method"`
	PaymentConfirmed bool         `json:"payment_confirmed"`
	Status           string       `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
}

// OrderItem is one cart line. The JSON keys match the storefront cart.
type OrderItem struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
	UserID string  `json:"userId,omitempty"`
	Img    string  `json:"img,omitempty"`
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Qty)
}

// ItemsTotal sums item subtotals.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// NextOrderID returns max numeric id + 1 as a decimal string. Non-numeric ids
// are ignored.
func NextOrderID(orders []Order) string {
	var max int64
	for _, o := range orders {
		if n, err := strconv.ParseInt(o.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}

// FindOrder returns the index of the order with the given id, or -1.
func FindOrder(orders []Order, id string) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// ValidDeliveryOption reports whether v is a known delivery option.
func ValidDeliveryOption(v string) bool {
	return v == DeliveryPickup || v == DeliveryDelivery
}

// ValidPaymentMethod reports whether v is a known payment method.
func ValidPaymentMethod(v string) bool {
	switch v {
	case PaymentCashOnDelivery, PaymentCard, PaymentBankTransfer:
		return true
	}
	return false
}
