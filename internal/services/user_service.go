package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/config"
	"github.com/example/sidedish/internal/models"
	"github.com/example/sidedish/internal/storage"
	"github.com/example/sidedish/internal/utils"
)

const defaultAdminName = "Admin User"

// UserService manages accounts on behalf of signed-in administrators.
type UserService struct {
	users  storage.Collection[models.User]
	cfg    *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(users storage.Collection[models.User], cfg *config.Config, logger *logrus.Logger) *UserService {
	return &UserService{users: users, cfg: cfg, logger: logger, now: time.Now}
}

// ListUsers returns every account without password hashes.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, apperr.Internal("error fetching users", err)
	}
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// CreateUser adds an account. name defaults to "Admin User".
func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*models.UserSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password required")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = defaultAdminName
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("error creating user", err)
	}

	var created models.User
	err = s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if models.FindUserByEmail(users, email) >= 0 {
			return nil, apperr.Conflict("user already exists")
		}
		created = models.User{
			ID:       newUserID(users, "admin_", s.now()),
			Name:     name,
			Email:    email,
			Password: hash,
		}
		return append(users, created), nil
	})
	if err != nil {
		return nil, wrapStoreError(err, "error creating user")
	}

	s.logger.WithFields(logrus.Fields{"user_id": created.ID, "email": created.Email}).Info("admin user created")
	summary := created.Summary()
	return &summary, nil
}

// DeleteUser removes the account with the given email. The last remaining
// account and the caller's own account cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, email, callerEmail string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.Validation("email required")
	}

	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if len(users) <= 1 {
			return nil, apperr.Forbidden("cannot delete the last admin user")
		}
		if strings.EqualFold(email, callerEmail) {
			return nil, apperr.Forbidden("cannot delete your own account")
		}
		idx := models.FindUserByEmail(users, email)
		if idx < 0 {
			return nil, apperr.NotFound("user not found")
		}
		return append(users[:idx:idx], users[idx+1:]...), nil
	})
	if err != nil {
		return wrapStoreError(err, "error deleting user")
	}

	s.logger.WithFields(logrus.Fields{"email": email, "deleted_by": callerEmail}).Info("admin user deleted")
	return nil
}
