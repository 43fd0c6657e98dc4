package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nuxtcare/nuxtcare-backend/restapi"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes.
// rateStorage may be nil, which keeps the per-IP counters in process memory;
// pass a shared storage to coordinate limits across instances.
func NewFiberApp(deps restapi.Deps, rateStorage fiber.Storage) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "nuxtcare-backend API v1.0",
		ReadTimeout: 60 * time.Second,
	})

	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: util.GetEnvDefault("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowMethods: "GET, POST, HEAD, OPTIONS",
	}))

	app.Use(logger.New())

	// Sliding per-IP limit on the API surface. The middleware answers 429
	// with a Retry-After header when the window is exhausted.
	app.Use("/api", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Storage:    rateStorage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":      "rate limit exceeded",
				"retryAfter": c.GetRespHeader(fiber.HeaderRetryAfter),
			})
		},
	}))

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	restapi.SetupRoutes(app, deps)

	return app
}
