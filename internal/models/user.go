package models

import "strings"

// User is an account stored in the users collection. Password holds the
// bcrypt hash; it is persisted but never serialized in API responses.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Summary strips the password hash.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// HasEmail compares emails case-insensitively.
func (u User) HasEmail(email string) bool {
	return u.Email != "" && strings.EqualFold(u.Email, email)
}

// FindUserByEmail returns the index of the user with the given email, or -1.
func FindUserByEmail(users []User, email string) int {
	for i, u := range users {
		if u.HasEmail(email) {
			return i
		}
	}
	return -1
}

// FindUserByID returns the index of the user with the given id, or -1.
func FindUserByID(users []User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
