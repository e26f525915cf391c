package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	authLimitMessage = "Too many login attempts, please try again later"
	apiLimitMessage  = "Too many requests, please try again later"
)

// RateLimit counts requests per client IP in a fixed window. storage may be
// nil for in-process counters.
func RateLimit(max int, window time.Duration, message string, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": message})
		},
		Storage: storage,
	})
}

// AuthRateLimit guards the login and signup endpoints.
func AuthRateLimit(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return RateLimit(max, window, authLimitMessage, storage)
}

// APIRateLimit guards everything under /api.
func APIRateLimit(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return RateLimit(max, window, apiLimitMessage, storage)
}
