package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bookclub_backend/internals/helpers/apperr"
	"bookclub_backend/internals/helpers/logger"
)

// JsonServiceError maps an error returned by a service onto the error envelope.
// Typed domain errors keep their own status and message; anything else is a 500
// and its text is logged, not returned.
func JsonServiceError(c *fiber.Ctx, err error) error {
	var sc apperr.StatusCoder
	if errors.As(err, &sc) {
		return JsonError(c, sc.StatusCode(), err.Error())
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return JsonValidationError(c, ValidationErrors(ve))
	}
	logger.Error("unhandled service error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return JsonError(c, fiber.StatusInternalServerError, "")
}

// ValidationErrors flattens validator output into field -> failed tags.
func ValidationErrors(ve validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fe.Tag())
	}
	return out
}
