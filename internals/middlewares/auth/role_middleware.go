package auth

import (
	"github.com/gofiber/fiber/v2"

	"bookclub_backend/internals/constants"
	helper "bookclub_backend/internals/helpers"
)

// OnlyRoles lets the request through when the token role is one of roles. Run after AuthJWT.
func OnlyRoles(message string, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[constants.NormalizeRole(r)] = struct{}{}
	}
	if message == "" {
		message = "접근 권한이 없습니다."
	}

	return func(c *fiber.Ctx) error {
		if _, err := helper.GetUserIDFromToken(c); err != nil {
			return helper.JsonServiceError(c, err)
		}
		if _, ok := allowed[helper.GetRoleFromToken(c)]; ok {
			return c.Next()
		}
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}
