// Package server assembles the Fiber application and its dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/config"
	"github.com/example/sidedish/internal/database"
	"github.com/example/sidedish/internal/metrics"
	"github.com/example/sidedish/internal/middleware"
	"github.com/example/sidedish/internal/models"
	"github.com/example/sidedish/internal/routes"
	"github.com/example/sidedish/internal/services"
	"github.com/example/sidedish/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the collaborators NewApp needs. Tests build them by hand;
// Build derives them from configuration.
type Dependencies struct {
	Users    storage.Collection[models.User]
	Orders   storage.Collection[models.Order]
	Google   services.GoogleVerifier
	Notifier services.OrderNotifier
	Limits   routes.LimiterStorage
	Metrics  *metrics.Metrics
}

// Server is a configured application plus the resources it owns.
type Server struct {
	App     *fiber.App
	Auth    *services.AuthService
	cfg     *config.Config
	logger  *logrus.Logger
	closers []func() error
}

// NewApp builds the Fiber application with every middleware and route.
func NewApp(cfg *config.Config, log *logrus.Logger, deps Dependencies) (*fiber.App, routes.Services) {
	app := fiber.New(fiber.Config{
		AppName:      "SideDish",
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Output: log.Out,
		Format: "${time} ${status} ${latency} ${method} ${path} ${locals:requestid}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:  "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "X-Total-Count",
	}))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}

	svc := routes.Services{
		Auth:   services.NewAuthService(deps.Users, deps.Google, cfg, log, deps.Metrics),
		Orders: services.NewOrderService(deps.Orders, deps.Notifier, log, deps.Metrics),
		Users:  services.NewUserService(deps.Users, cfg, log),
	}
	routes.Register(app, svc, cfg, deps.Limits, deps.Metrics)
	return app, svc
}

// ErrorHandler renders every error as {"message": ...}. Unclassified errors
// are logged and hidden behind a generic message.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"

		var appErr *apperr.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.Kind.Status()
			message = appErr.Message
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method":     c.Method(),
				"path":       c.Path(),
				"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
			}).Error("request failed")
		}
		return c.Status(status).JSON(fiber.Map{"message": message})
	}
}

// Build opens storage, Redis and the Google verifier from cfg, seeds the
// default admin and returns a ready Server.
func Build(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: log}

	deps := Dependencies{Metrics: metrics.New()}
	if err := s.openStorage(&deps); err != nil {
		s.Close()
		return nil, err
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			s.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.Limits = routes.LimiterStorage{
			Auth: middleware.NewRedisStorage(client, "sidedish:limiter:auth:"),
			API:  middleware.NewRedisStorage(client, "sidedish:limiter:api:"),
		}
		s.closers = append(s.closers, client.Close)
		log.WithField("addr", cfg.RedisAddr).Info("rate limit counters stored in redis")
	}

	google, err := services.NewIDTokenVerifier(ctx, cfg.GoogleClientID)
	if err != nil {
		s.Close()
		return nil, err
	}
	if cfg.GoogleClientID == "" {
		log.Warn("GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}
	deps.Google = google

	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, log)
	if telegram.Enabled() {
		deps.Notifier = telegram
	}

	app, svc := NewApp(cfg, log, deps)
	if _, err := svc.Auth.SeedDefaultAdmin(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	s.App = app
	s.Auth = svc.Auth
	return s, nil
}

func (s *Server) openStorage(deps *Dependencies) error {
	switch s.cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := database.Connect(s.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			s.closers = append(s.closers, sqlDB.Close)
		}
		deps.Users = storage.NewDocumentCollection[models.User](db, "users")
		deps.Orders = storage.NewDocumentCollection[models.Order](db, "orders")
		s.logger.Info("using postgres document store")
	default:
		orders := storage.NewFileCollection[models.Order](s.cfg.OrdersFile())
		if err := orders.EnsureExists(); err != nil {
			return err
		}
		deps.Users = storage.NewFileCollection[models.User](s.cfg.UsersFile())
		deps.Orders = orders
		s.logger.WithField("dir", s.cfg.DataDir).Info("using json file store")
	}
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.cfg.AppPort).Info("starting server")
		errCh <- s.App.Listen(":" + s.cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	err := s.App.ShutdownWithTimeout(shutdownTimeout)
	s.Close()
	return err
}

// Close releases database and Redis connections.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.WithError(err).Warn("close failed")
		}
	}
	s.closers = nil
}

// SeedAdmin opens the configured store and seeds the default admin account
// without starting the HTTP server.
func SeedAdmin(ctx context.Context, cfg *config.Config, log *logrus.Logger) (bool, error) {
	s := &Server{cfg: cfg, logger: log}
	defer s.Close()

	var deps Dependencies
	if err := s.openStorage(&deps); err != nil {
		return false, err
	}
	return services.NewAuthService(deps.Users, nil, cfg, log, nil).SeedDefaultAdmin(ctx)
}
