package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerfile/ledgerfile/internal/auth"
	"github.com/ledgerfile/ledgerfile/internal/config"
	"github.com/ledgerfile/ledgerfile/internal/ledger"
	"github.com/ledgerfile/ledgerfile/internal/middleware"
	"github.com/ledgerfile/ledgerfile/internal/notification"
	"github.com/ledgerfile/ledgerfile/internal/store"
)

// Deps aggregates shared dependencies required to wire routes. Cache may be
// nil; the Redis-backed middlewares then degrade to no-ops.
type Deps struct {
	Cfg    config.Config
	Store  store.Store
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	notifier := notification.NewLoggerNotifier(d.Logger)
	authSvc := auth.NewService(d.Store, d.Logger, notifier)
	manager := auth.NewManager(authSvc)
	authHandler := auth.NewHandler(authSvc, manager)
	ledgerHandler := ledger.NewHandler(auth.SessionContextKey)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	protected := api.Group("", middleware.SessionAuth(manager))
	protected.Post("/auth/logout", authHandler.Logout)
	RegisterAccountRoutes(protected, ledgerHandler)

	return nil
}
