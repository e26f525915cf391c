package storefront

import (
	"strconv"
	"strings"
)

// Delivery options and payment methods accepted at checkout.
const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"

	PaymentCashOnDelivery = "cash-on-delivery"
	PaymentCard           = "card-payment"
	PaymentBankTransfer   = "bank-transfer"
)

// Delivery pricing. Only DeliveryCity has a fixed fee; elsewhere delivery
// needs a cart of at least MinimumDeliveryOrder and is paid on arrival.
const (
	DeliveryCity         = "Kano"
	DeliveryCityFee      = 2400
	MinimumDeliveryOrder = 10000
)

// DeliveryQuote is the fee and payment options for a city, delivery option
// and cart total.
type DeliveryQuote struct {
	Fee float64
	// Available is false when the order cannot be fulfilled as chosen.
	Available      bool
	PayOnArrival   bool
	CashOnDelivery bool
	CardPayment    bool
	GrandTotal     float64
	Label          string
}

// QuoteDelivery prices delivery for the checkout form.
func QuoteDelivery(city, option string, cartTotal float64) DeliveryQuote {
	q := DeliveryQuote{GrandTotal: cartTotal}

	switch option {
	case DeliveryPickup:
		q.Available = true
		q.CardPayment = true
		q.Label = "0 NGN (In-restaurant pickup)"
	case DeliveryDelivery:
		switch {
		case strings.TrimSpace(city) == DeliveryCity:
			q.Fee = DeliveryCityFee
			q.Available = true
			q.CashOnDelivery = true
			q.Label = FormatNaira(DeliveryCityFee)
		case cartTotal < MinimumDeliveryOrder:
			q.Label = "Not available (Order under " + FormatNaira(MinimumDeliveryOrder) + ")"
		default:
			q.Available = true
			q.PayOnArrival = true
			q.Label = "To be paid upon arrival (varies by state)"
		}
	default:
		q.Label = "Select a delivery option"
	}

	q.GrandTotal = cartTotal + q.Fee
	return q
}

// AllowsPayment reports whether method can be chosen with this quote. Bank
// transfer is always offered.
func (q DeliveryQuote) AllowsPayment(method string) bool {
	switch method {
	case PaymentCashOnDelivery:
		return q.CashOnDelivery
	case PaymentCard:
		return q.CardPayment
	case PaymentBankTransfer:
		return true
	}
	return false
}

// FormatNaira renders a whole-naira amount with thousand separators.
func FormatNaira(amount float64) string {
	digits := strconv.FormatInt(int64(amount), 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteString(" NGN")
	return b.String()
}
