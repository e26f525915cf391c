package storefront

import (
	"encoding/json"
	"fmt"
	"sync"
)

// User is the signed-in account as returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Session holds the current token and user.
type Session struct {
	mu    sync.RWMutex
	store Storage
	token string
	user  *User
}

// LoadSession restores a session from store. A missing or unreadable user
// record leaves the session signed out.
func LoadSession(store Storage) (*Session, error) {
	s := &Session{store: store}

	token, ok, err := store.Get(KeyToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}

	raw, ok, err := store.Get(KeyUser)
	if err != nil {
		return nil, err
	}
	var user User
	if !ok || json.Unmarshal(raw, &user) != nil || user.Email == "" {
		return s, nil
	}

	s.token = string(token)
	s.user = &user
	return s, nil
}

// SignIn stores token and user.
func (s *Session) SignIn(token string, user User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(KeyToken, []byte(token)); err != nil {
		return fmt.Errorf("storefront: save token: %w", err)
	}
	if err := s.store.Set(KeyUser, raw); err != nil {
		return fmt.Errorf("storefront: save user: %w", err)
	}
	s.token = token
	s.user = &user
	return nil
}

// Logout forgets the session and empties cart, if given.
func (s *Session) Logout(cart *Cart) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	err := removeKeys(s.store, KeyToken, KeyUser)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if cart != nil {
		return cart.Clear()
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) SignedIn() bool {
	return s.User() != nil
}

func removeKeys(store Storage, keys ...string) error {
	for _, key := range keys {
		if err := store.Remove(key); err != nil {
			return fmt.Errorf("storefront: remove %s: %w", key, err)
		}
	}
	return nil
}
