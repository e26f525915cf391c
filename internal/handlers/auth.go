package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/services"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleCallbackRequest struct {
	Token string `json:"token"`
}

// Login exchanges email and password for a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("email and password required")
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Signup creates a new account and signs it in.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("name, email and password required")
	}

	result, err := h.auth.Signup(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GoogleCallback signs in with a Google ID token.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	var req googleCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Auth("invalid google token")
	}

	result, err := h.auth.GoogleLogin(c.UserContext(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
