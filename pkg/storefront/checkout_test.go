package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCheckout(t *testing.T) {
	items := []CartItem{{Name: "Jollof Rice", Price: 1500, Qty: 2}}
	user := &User{ID: "user_1", Email: "amina@sidedish.test"}
	kano := CheckoutDetails{Address: "12 Bompai Road", City: "Kano", DeliveryOption: DeliveryDelivery, PaymentMethod: PaymentCashOnDelivery}

	assert.NoError(t, ValidateCheckout(items, user, kano))
	assert.ErrorIs(t, ValidateCheckout(nil, user, kano), ErrEmptyCart)
	assert.ErrorIs(t, ValidateCheckout(items, nil, kano), ErrNotSignedIn)

	missing := kano
	missing.Address = "  "
	assert.ErrorIs(t, ValidateCheckout(items, user, missing), ErrMissingDetails)

	missing = kano
	missing.PaymentMethod = ""
	assert.ErrorIs(t, ValidateCheckout(items, user, missing), ErrMissingDetails)

	lagos := kano
	lagos.City = "Lagos"
	assert.ErrorIs(t, ValidateCheckout(items, user, lagos), ErrDeliveryNotOffered)

	card := kano
	card.PaymentMethod = PaymentCard
	assert.ErrorIs(t, ValidateCheckout(items, user, card), ErrPaymentNotOffered)

	pickup := kano
	pickup.DeliveryOption = DeliveryPickup
	pickup.PaymentMethod = PaymentCard
	assert.NoError(t, ValidateCheckout(items, user, pickup))
}

func TestNewOrder(t *testing.T) {
	items := []CartItem{{Name: "Suya", Price: 3000, Qty: 2}}
	user := &User{ID: "user_1", Email: "amina@sidedish.test"}

	order := NewOrder(items, user, CheckoutDetails{Address: " 1 Zoo Road ", City: "Kano", DeliveryOption: DeliveryPickup, PaymentMethod: PaymentCard})
	assert.Equal(t, 6000.0, order.Total)
	assert.Equal(t, "Kano", order.State)
	assert.Equal(t, "1 Zoo Road", order.Address)
	assert.False(t, order.PaymentConfirmed)
}
