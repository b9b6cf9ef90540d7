package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	helper "bookclub_backend/internals/helpers"
	"bookclub_backend/internals/helpers/logger"
)

// LoggerMiddleware logs one line per request and bounds the handler with timeout,
// which should stay in line with the DB statement_timeout.
func LoggerMiddleware(timeout time.Duration) fiber.Handler {
	log := logger.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()

		fields := []zap.Field{
			zap.String("request_id", fmt.Sprint(c.Locals("requestid"))),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		// set by AuthJWT on authenticated groups
		if uid, ok := c.Locals(helper.LocUserID).(string); ok && uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		if err != nil {
			log.Warn("request", append(fields, zap.Error(err))...)
			return err
		}
		log.Info("request", fields...)
		return nil
	}
}
