package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Signup form errors.
var (
	ErrIncompleteForm   = errors.New("storefront: please complete all fields")
	ErrPasswordMismatch = errors.New("storefront: passwords do not match")
	ErrPasswordTooShort = errors.New("storefront: password should be at least 6 characters")
)

const minPasswordLength = 6

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: api status %d: %s", e.Status, e.Message)
}

// Client talks to the SideDish API on behalf of one shopper.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	cart       *Cart
}

// NewClient returns a client for baseURL. httpClient may be nil.
func NewClient(baseURL string, session *Session, cart *Cart, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    session,
		cart:       cart,
	}
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SignupForm mirrors the signup dialog.
type SignupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// Validate runs the checks made before the form is sent.
func (f SignupForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" || f.Password == "" || f.Confirm == "" {
		return ErrIncompleteForm
	}
	if f.Password != f.Confirm {
		return ErrPasswordMismatch
	}
	if len(f.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Login signs in with email and password and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrIncompleteForm
	}
	return c.authenticate(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

// Signup registers a new account and stores the session.
func (c *Client) Signup(ctx context.Context, form SignupForm) (*User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/api/auth/signup", map[string]string{
		"name":     strings.TrimSpace(form.Name),
		"email":    strings.TrimSpace(form.Email),
		"password": form.Password,
	})
}

// GoogleLogin exchanges a Google ID token for a session.
func (c *Client) GoogleLogin(ctx context.Context, credential string) (*User, error) {
	if credential == "" {
		return nil, ErrIncompleteForm
	}
	return c.authenticate(ctx, "/api/auth/google/callback", map[string]string{"token": credential})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*User, error) {
	var resp authResponse
	if err := c.do(ctx, requestOpts{Method: http.MethodPost, Path: path, Body: body}, &resp); err != nil {
		return nil, err
	}
	if err := c.session.SignIn(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// SubmitOrder validates the cart and details, posts the order and empties
// the cart on success.
func (c *Client) SubmitOrder(ctx context.Context, details CheckoutDetails) (*Order, error) {
	items := c.cart.Items()
	user := c.session.User()
	if err := ValidateCheckout(items, user, details); err != nil {
		return nil, err
	}

	var resp struct {
		Success bool  `json:"success"`
		Order   Order `json:"order"`
	}
	order := NewOrder(items, user, details)
	if err := c.do(ctx, requestOpts{Method: http.MethodPost, Path: "/api/orders", Body: order}, &resp); err != nil {
		return nil, err
	}
	if err := c.cart.Clear(); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// ListOrders returns every order. Requires a session.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := c.do(ctx, requestOpts{Method: http.MethodGet, Path: "/api/orders", Auth: true}, &orders)
	return orders, err
}

// SetPaymentConfirmed marks an order as paid or unpaid.
func (c *Client) SetPaymentConfirmed(ctx context.Context, id string, confirmed bool) error {
	return c.do(ctx, requestOpts{
		Method: http.MethodPatch,
		Path:   "/api/orders/" + url.PathEscape(id),
		Body:   map[string]bool{"payment_confirmed": confirmed},
		Auth:   true,
	}, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, requestOpts{Method: http.MethodDelete, Path: "/api/orders/" + url.PathEscape(id), Auth: true}, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := c.do(ctx, requestOpts{Method: http.MethodGet, Path: "/api/admin/users", Auth: true}, &users)
	return users, err
}

// CreateUser adds an admin account. name may be empty.
func (c *Client) CreateUser(ctx context.Context, email, password, name string) error {
	body := map[string]string{"email": email, "password": password}
	if name != "" {
		body["name"] = name
	}
	return c.do(ctx, requestOpts{Method: http.MethodPost, Path: "/api/admin/users", Body: body, Auth: true}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, email string) error {
	return c.do(ctx, requestOpts{Method: http.MethodDelete, Path: "/api/admin/users/" + url.PathEscape(email), Auth: true}, nil)
}

type requestOpts struct {
	Method string
	Path   string
	Body   any
	Auth   bool
}

func (c *Client) do(ctx context.Context, opts requestOpts, out any) error {
	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, c.baseURL+opts.Path, body)
	if err != nil {
		return fmt.Errorf("storefront: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.Auth {
		token := c.session.Token()
		if token == "" {
			return ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront: %s %s: %w", opts.Method, opts.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("storefront: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("storefront: decode response: %w", err)
	}
	return nil
}
