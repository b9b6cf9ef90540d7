package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"bookclub_backend/internals/configs"
	requestLogger "bookclub_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain. Order matters: recovery first so it sees every panic.
func SetupMiddlewares(app *fiber.App, cfg *configs.AppConfig) {
	app.Use(RecoveryMiddleware())
	app.Use(requestid.New())
	app.Use(requestLogger.LoggerMiddleware(5 * time.Second))
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(GlobalRateLimiter())
}
