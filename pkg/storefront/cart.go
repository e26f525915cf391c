package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// ErrNotSignedIn is returned when an operation needs a signed-in user.
var ErrNotSignedIn = errors.New("storefront: please sign in first")

// CartItem is one line in the cart. The JSON keys match the order API.
type CartItem struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
	UserID string  `json:"userId,omitempty"`
	Img    string  `json:"img,omitempty"`
}

// Subtotal is price times quantity.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Qty)
}

// Cart is the shopping cart. Every change is written back to the store.
type Cart struct {
	mu      sync.Mutex
	store   Storage
	session *Session
	items   []CartItem
	total   float64
}

// LoadCart restores the cart saved in store.
func LoadCart(store Storage, session *Session) (*Cart, error) {
	c := &Cart{store: store, session: session}

	raw, ok, err := store.Get(KeyCart)
	if err != nil {
		return nil, err
	}
	if ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.items); err != nil {
			return nil, fmt.Errorf("storefront: decode cart: %w", err)
		}
	}
	c.total = sumItems(c.items)
	return c, nil
}

const maxItemQty = 99

// Add appends an item owned by the signed-in user. qty is clamped to 1..99.
func (c *Cart) Add(name string, price float64, qty int, img string) error {
	user := c.session.User()
	if user == nil {
		return ErrNotSignedIn
	}
	if qty < 1 {
		qty = 1
	}
	if qty > maxItemQty {
		qty = maxItemQty
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, CartItem{Name: name, Price: price, Qty: qty, UserID: user.ID, Img: img})
	c.total = sumItems(c.items)
	return c.persist()
}

// Remove drops the item at index. Out-of-range indexes are ignored.
func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return nil
	}
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	c.total = sumItems(c.items)
	return c.persist()
}

// Clear empties the cart and deletes the saved copy.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.total = 0
	return removeKeys(c.store, KeyCart, KeyTotal)
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartItem(nil), c.items...)
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Count is the number of pieces in the cart.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.items {
		n += item.Qty
	}
	return n
}

func (c *Cart) persist() error {
	items := c.items
	if items == nil {
		items = []CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := c.store.Set(KeyCart, raw); err != nil {
		return fmt.Errorf("storefront: save cart: %w", err)
	}
	if err := c.store.Set(KeyTotal, []byte(strconv.FormatFloat(c.total, 'f', -1, 64))); err != nil {
		return fmt.Errorf("storefront: save total: %w", err)
	}
	return nil
}

func sumItems(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
