package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookclub_backend/internals/constants"
	"bookclub_backend/internals/helpers/apperr"
)

const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
)

// GetUserIDFromToken reads the user id AuthJWT stored in locals.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	var raw string
	switch t := c.Locals(LocUserID).(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, apperr.AuthenticationError{}
		}
		return t, nil
	case string:
		raw = t
	case []byte:
		raw = string(t)
	default:
		return uuid.Nil, apperr.AuthenticationError{}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apperr.AuthenticationError{}
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperr.AuthenticationError{}
	}
	return id, nil
}

// GetRoleFromToken returns the normalized platform role; USER when absent.
func GetRoleFromToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocUserRole).(string)
	return constants.NormalizeRole(s)
}

// ParseUUIDParam returns a 400 *fiber.Error for malformed ids.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" 형식이 올바르지 않습니다.")
	}
	return id, nil
}
