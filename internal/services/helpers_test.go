package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/sidedish/internal/config"
	"github.com/example/sidedish/internal/logging"
	"github.com/example/sidedish/internal/models"
	"github.com/example/sidedish/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		TokenExpires:      8 * time.Hour,
		BcryptCost:        bcrypt.MinCost,
		SeedAdminEmail:    "admin@sidedish.test",
		SeedAdminPassword: "ChangeMe123!",
	}
}

func newUsers(t *testing.T) *storage.FileCollection[models.User] {
	return storage.NewFileCollection[models.User](filepath.Join(t.TempDir(), "users.json"))
}

func newOrders(t *testing.T) *storage.FileCollection[models.Order] {
	return storage.NewFileCollection[models.Order](filepath.Join(t.TempDir(), "orders.json"))
}

type fakeGoogle struct {
	identity *GoogleIdentity
	err      error
}

func (f *fakeGoogle) Verify(_ context.Context, idToken string) (*GoogleIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if idToken != "valid-google-token" {
		return nil, errors.New("token signature invalid")
	}
	return f.identity, nil
}

func newAuthService(t *testing.T, users storage.Collection[models.User], google GoogleVerifier) *AuthService {
	t.Helper()
	if google == nil {
		google = &fakeGoogle{}
	}
	return NewAuthService(users, google, testConfig(), logging.Discard(), nil)
}
