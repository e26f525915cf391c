package handlers

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/middleware"
	"github.com/example/sidedish/internal/models"
	"github.com/example/sidedish/internal/services"
	"github.com/example/sidedish/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	users *services.UserService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(users *services.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ListUsers returns every account without password hashes.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	c.Set("X-Total-Count", strconv.Itoa(len(users)))
	return c.JSON(utils.Paginate(users, utils.ParsePagination(c)))
}

// CreateUser adds an admin account.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("email and password required")
	}

	if _, err := h.users.CreateUser(c.UserContext(), req.Email, req.Password, req.Name); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Admin user created successfully"})
}

// DeleteUser removes the account addressed by the :email parameter.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		return apperr.Auth("unauthorized")
	}

	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return apperr.Validation("invalid email")
	}

	if err := h.users.DeleteUser(c.UserContext(), email, caller.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
