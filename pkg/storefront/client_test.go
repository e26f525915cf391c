package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	server *httptest.Server
	hits   atomic.Int32

	mu   sync.Mutex
	last *http.Request
	body map[string]any
}

func (a *fakeAPI) lastRequest() (*http.Request, map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last, a.body
}

func newFakeAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		api.mu.Lock()
		api.last, api.body = r, body
		api.mu.Unlock()
		api.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(api.server.Close)
	return api
}

func newTestClient(t *testing.T, api *fakeAPI) (*Client, *Cart, *Session) {
	t.Helper()
	store := NewMemoryStorage()
	session, err := LoadSession(store)
	require.NoError(t, err)
	cart, err := LoadCart(store, session)
	require.NoError(t, err)
	return NewClient(api.server.URL+"/", session, cart, api.server.Client()), cart, session
}

func authHandler(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": "jwt-token",
		"user":  map[string]string{"id": "user_1", "name": "Amina", "email": "amina@sidedish.test"},
	})
}

func TestLoginStoresSession(t *testing.T) {
	api := newFakeAPI(t, authHandler)
	client, _, session := newTestClient(t, api)

	user, err := client.Login(context.Background(), " amina@sidedish.test ", "jollof123")
	require.NoError(t, err)
	assert.Equal(t, "user_1", user.ID)
	last, body := api.lastRequest()
	assert.Equal(t, "/api/auth/login", last.URL.Path)
	assert.Equal(t, "amina@sidedish.test", body["email"])
	assert.Equal(t, "jwt-token", session.Token())
}

func TestSignupChecksFormBeforeSending(t *testing.T) {
	api := newFakeAPI(t, authHandler)
	client, _, _ := newTestClient(t, api)
	ctx := context.Background()

	_, err := client.Signup(ctx, SignupForm{Name: "A", Email: "a@b.c", Password: "secret1", Confirm: "secret2"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = client.Signup(ctx, SignupForm{Name: "A", Email: "a@b.c", Password: "abc", Confirm: "abc"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = client.Signup(ctx, SignupForm{Email: "a@b.c", Password: "secret1", Confirm: "secret1"})
	assert.ErrorIs(t, err, ErrIncompleteForm)
	assert.Zero(t, api.hits.Load())

	_, err = client.Signup(ctx, SignupForm{Name: "Amina", Email: "amina@sidedish.test", Password: "secret1", Confirm: "secret1"})
	require.NoError(t, err)
	last, body := api.lastRequest()
	assert.Equal(t, "/api/auth/signup", last.URL.Path)
	assert.NotContains(t, body, "confirm")
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})
	client, _, session := newTestClient(t, api)

	_, err := client.Login(context.Background(), "amina@sidedish.test", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.False(t, session.SignedIn())
}

func TestSubmitOrderRejectsWithoutNetworkCall(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {})
	client, cart, session := newTestClient(t, api)
	ctx := context.Background()
	details := CheckoutDetails{Address: "12 Bompai Road", City: "Kano", DeliveryOption: DeliveryDelivery, PaymentMethod: PaymentCashOnDelivery}

	_, err := client.SubmitOrder(ctx, details)
	assert.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, session.SignIn("jwt-token", User{ID: "user_1", Email: "amina@sidedish.test"}))
	require.NoError(t, cart.Add("Jollof Rice", 1500, 2, ""))

	incomplete := details
	incomplete.Address = ""
	_, err = client.SubmitOrder(ctx, incomplete)
	assert.ErrorIs(t, err, ErrMissingDetails)

	assert.Zero(t, api.hits.Load())
	assert.Len(t, cart.Items(), 1)
}

func TestSubmitOrderClearsCart(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"order":{"id":"7","items":[],"total":3000,"status":"Pending"}}`))
	})
	client, cart, session := newTestClient(t, api)
	require.NoError(t, session.SignIn("jwt-token", User{ID: "user_1", Email: "amina@sidedish.test"}))
	require.NoError(t, cart.Add("Jollof Rice", 1500, 2, ""))

	order, err := client.SubmitOrder(context.Background(), CheckoutDetails{
		Address: "12 Bompai Road", City: "Kano", DeliveryOption: DeliveryDelivery, PaymentMethod: PaymentCashOnDelivery,
	})
	require.NoError(t, err)
	assert.Equal(t, "7", order.ID)
	last, body := api.lastRequest()
	assert.Equal(t, "/api/orders", last.URL.Path)
	assert.Equal(t, "Kano", body["state"])
	assert.Equal(t, 3000.0, body["total"])
	assert.Empty(t, last.Header.Get("Authorization"))
	assert.Empty(t, cart.Items())
}

func TestAdminCallsSendBearerToken(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"id":"admin1","email":"admin@sidedish.test"}]`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	client, _, session := newTestClient(t, api)
	ctx := context.Background()

	_, err := client.ListUsers(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, api.hits.Load())

	require.NoError(t, session.SignIn("jwt-token", User{ID: "admin1", Email: "admin@sidedish.test"}))

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	last, _ := api.lastRequest()
	assert.Equal(t, "Bearer jwt-token", last.Header.Get("Authorization"))

	require.NoError(t, client.SetPaymentConfirmed(ctx, "3", true))
	last, body := api.lastRequest()
	assert.Equal(t, http.MethodPatch, last.Method)
	assert.Equal(t, "/api/orders/3", last.URL.Path)
	assert.Equal(t, true, body["payment_confirmed"])

	require.NoError(t, client.DeleteUser(ctx, "ops@sidedish.test"))
	last, _ = api.lastRequest()
	assert.Equal(t, "/api/admin/users/ops@sidedish.test", last.URL.Path)

	require.NoError(t, client.CreateUser(ctx, "ops@sidedish.test", "kitchen-pass", ""))
	_, body = api.lastRequest()
	assert.NotContains(t, body, "name")

	require.NoError(t, client.DeleteOrder(ctx, "3"))
	last, _ = api.lastRequest()
	assert.Equal(t, http.MethodDelete, last.Method)
}
