package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/sidedish/internal/config"
	"github.com/example/sidedish/internal/handlers"
	"github.com/example/sidedish/internal/metrics"
	"github.com/example/sidedish/internal/middleware"
	"github.com/example/sidedish/internal/services"
)

// Services are the domain services the HTTP layer exposes.
type Services struct {
	Auth   *services.AuthService
	Orders *services.OrderService
	Users  *services.UserService
}

// LimiterStorage holds the counter stores for the two rate limiters. Nil
// fields mean in-process counters.
type LimiterStorage struct {
	Auth fiber.Storage
	API  fiber.Storage
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, svc Services, cfg *config.Config, limits LimiterStorage, m *metrics.Metrics) {
	authHandler := handlers.NewAuthHandler(svc.Auth)
	orderHandler := handlers.NewOrderHandler(svc.Orders)
	adminHandler := handlers.NewAdminHandler(svc.Users)

	requireAuth := middleware.AuthMiddleware(svc.Auth)
	authLimiter := middleware.AuthRateLimit(cfg.AuthRateLimit, cfg.RateLimitWindow, limits.Auth)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if m != nil {
		app.Get("/metrics", m.Handler())
	}

	api := app.Group("/api", middleware.APIRateLimit(cfg.APIRateLimit, cfg.RateLimitWindow, limits.API))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authLimiter, authHandler.Login)
	auth.Post("/signup", authLimiter, authHandler.Signup)
	auth.Post("/google/callback", authHandler.GoogleCallback)

	// Order routes
	orders := api.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", requireAuth, orderHandler.ListOrders)
	orders.Patch("/:id", requireAuth, orderHandler.UpdateOrder)
	orders.Delete("/:id", requireAuth, orderHandler.DeleteOrder)

	// Admin routes
	admin := api.Group("/admin", requireAuth)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users", adminHandler.CreateUser)
	admin.Delete("/users/:email", adminHandler.DeleteUser)

	// Storefront pages and images
	app.Static("/assets", cfg.AssetsDir)
	app.Static("/", cfg.PublicDir)
}
