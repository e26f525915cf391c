package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/config"
	"github.com/example/sidedish/internal/metrics"
	"github.com/example/sidedish/internal/models"
	"github.com/example/sidedish/internal/storage"
	"github.com/example/sidedish/internal/utils"
)

// SeedAdminID is the id of the account created on first run.
const SeedAdminID = "admin1"

// AuthResult is returned by every successful sign-in.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// AuthService handles credentials, Google sign-in and session tokens.
type AuthService struct {
	users   storage.Collection[models.User]
	google  GoogleVerifier
	cfg     *config.Config
	logger  *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users storage.Collection[models.User], google GoogleVerifier, cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics) *AuthService {
	return &AuthService{
		users:   users,
		google:  google,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Login authenticates an existing user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password required")
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, apperr.Internal("login error", err)
	}

	idx := models.FindUserByEmail(users, email)
	if idx < 0 || !utils.CheckPassword(users[idx].Password, password) {
		s.metrics.AuthAttempt("password", "failure")
		s.logger.WithField("email", email).Warn("login rejected")
		return nil, apperr.Auth("invalid credentials")
	}

	s.metrics.AuthAttempt("password", "success")
	return s.issue(users[idx])
}

// Signup registers a new user and signs them in.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("name, email and password required")
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("signup error", err)
	}

	var created models.User
	err = s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if models.FindUserByEmail(users, email) >= 0 {
			return nil, apperr.Conflict("user already exists")
		}
		created = models.User{
			ID:       newUserID(users, "user_", s.now()),
			Name:     name,
			Email:    email,
			Password: hash,
		}
		return append(users, created), nil
	})
	if err != nil {
		s.metrics.AuthAttempt("signup", "failure")
		return nil, wrapStoreError(err, "signup error")
	}

	s.metrics.AuthAttempt("signup", "success")
	s.logger.WithFields(logrus.Fields{"user_id": created.ID, "email": created.Email}).Info("user signed up")
	return s.issue(created)
}

// GoogleLogin verifies a Google ID token and signs in the matching local
// user, creating one on first sign-in.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, apperr.Auth("invalid google token")
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil || identity.Email == "" {
		s.metrics.AuthAttempt("google", "failure")
		s.logger.WithError(err).Warn("google token rejected")
		return nil, &apperr.Error{Kind: apperr.KindAuth, Message: "invalid google token", Err: err}
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, apperr.Internal("google sign-in error", err)
	}

	var user models.User
	if idx := models.FindUserByEmail(users, identity.Email); idx >= 0 {
		user = users[idx]
	} else {
		hash, err := utils.UnusablePasswordHash(s.cfg.BcryptCost)
		if err != nil {
			return nil, apperr.Internal("google sign-in error", err)
		}
		err = s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
			if idx := models.FindUserByEmail(users, identity.Email); idx >= 0 {
				user = users[idx]
				return users, nil
			}
			user = models.User{
				ID:       newUserID(users, "google_"+identity.Subject, time.Time{}),
				Name:     identity.Name,
				Email:    identity.Email,
				Password: hash,
			}
			return append(users, user), nil
		})
		if err != nil {
			return nil, wrapStoreError(err, "google sign-in error")
		}
		s.logger.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("google user created")
	}

	if identity.Name != "" {
		user.Name = identity.Name
	}
	s.metrics.AuthAttempt("google", "success")
	return s.issue(user)
}

// SeedDefaultAdmin creates the default admin account when the users
// collection is empty or its first record has no password. It reports
// whether a seed was written.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context) (bool, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return false, err
	}
	if !needsSeed(users) {
		return false, nil
	}

	hash, err := utils.HashPassword(s.cfg.SeedAdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return false, err
	}

	seeded := false
	err = s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		seeded = false
		if !needsSeed(users) {
			return users, nil
		}
		seeded = true
		return []models.User{{ID: SeedAdminID, Email: s.cfg.SeedAdminEmail, Password: hash}}, nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.WithField("email", s.cfg.SeedAdminEmail).Info("seeded users collection with default admin account")
	}
	return seeded, nil
}

// Verify validates a session token.
func (s *AuthService) Verify(token string) (*utils.SessionClaims, error) {
	claims, err := utils.ParseToken(s.cfg.JWTSecret, token)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindAuth, Message: "invalid token", Err: err}
	}
	return claims, nil
}

func (s *AuthService) issue(user models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(s.cfg.JWTSecret, user.Email, user.ID, s.cfg.TokenExpires)
	if err != nil {
		return nil, apperr.Internal("failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

func needsSeed(users []models.User) bool {
	return len(users) == 0 || users[0].Password == ""
}
