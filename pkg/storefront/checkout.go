package storefront

import (
	"errors"
	"strings"
	"time"
)

// Checkout errors. None of them involves a network call.
var (
	ErrEmptyCart          = errors.New("storefront: your cart is empty")
	ErrMissingDetails     = errors.New("storefront: please fill in all delivery and payment details")
	ErrDeliveryNotOffered = errors.New("storefront: delivery is not available for this order")
	ErrPaymentNotOffered  = errors.New("storefront: payment method not available for this delivery option")
)

// CheckoutDetails is what the shopper fills in on the checkout page.
type CheckoutDetails struct {
	Address        string
	City           string
	DeliveryOption string
	PaymentMethod  string
}

// Order is an order as sent to and returned by the API.
type Order struct {
	ID               string     `json:"id,omitempty"`
	Items            []CartItem `json:"items"`
	Total            float64    `json:"total"`
	Customer         *User      `json:"customer"`
	Address          string     `json:"address"`
	State            string     `json:"state"`
	DeliveryOption   string     `json:"delivery_option"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentConfirmed bool       `json:"payment_confirmed"`
	Status           string     `json:"status,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
}

// ValidateCheckout checks that an order can be submitted.
func ValidateCheckout(items []CartItem, user *User, d CheckoutDetails) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	if user == nil {
		return ErrNotSignedIn
	}
	if strings.TrimSpace(d.Address) == "" || strings.TrimSpace(d.City) == "" ||
		d.DeliveryOption == "" || d.PaymentMethod == "" {
		return ErrMissingDetails
	}

	quote := QuoteDelivery(d.City, d.DeliveryOption, sumItems(items))
	if !quote.Available {
		return ErrDeliveryNotOffered
	}
	if !quote.AllowsPayment(d.PaymentMethod) {
		return ErrPaymentNotOffered
	}
	return nil
}

// NewOrder builds the order payload for the given cart contents.
func NewOrder(items []CartItem, user *User, d CheckoutDetails) Order {
	return Order{
		Items:          items,
		Total:          sumItems(items),
		Customer:       user,
		Address:        strings.TrimSpace(d.Address),
		State:          strings.TrimSpace(d.City),
		DeliveryOption: d.DeliveryOption,
		PaymentMethod:  d.PaymentMethod,
	}
}
