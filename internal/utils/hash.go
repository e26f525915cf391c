package utils

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt cost used for stored passwords.
const DefaultHashCost = 12

// HashPassword returns a bcrypt hash of the provided password.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// UnusablePasswordHash hashes a random secret nobody knows. Accounts created
// through Google sign-in carry one so password login can never succeed.
func UnusablePasswordHash(cost int) (string, error) {
	return HashPassword(uuid.NewString()+uuid.NewString(), cost)
}
