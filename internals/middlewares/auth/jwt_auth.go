package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	helper "bookclub_backend/internals/helpers"
	"bookclub_backend/internals/helpers/logger"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // read the access_token cookie when there is no Bearer header
	ClockSkew           time.Duration
	Now                 func() time.Time
}

// AuthJWT verifies an HS256 access token and stores user_id and userRole in locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: secret is required")
	}
	now := o.Now
	if now == nil {
		now = time.Now
	}
	skew := o.ClockSkew
	if skew == 0 {
		skew = 30 * time.Second
	}
	log := logger.Named("auth")

	return func(c *fiber.Ctx) error {
		raw, err := extractBearerToken(c, o.AllowCookieFallback)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "로그인이 필요합니다.")
		}

		claims := jwt.MapClaims{}
		// exp is checked below with our own clock and skew
		parser := jwt.Parser{SkipClaimsValidation: true}
		_, err = parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			return helper.JsonError(c, fiber.StatusUnauthorized, "유효하지 않은 토큰입니다.")
		}
		if err := validateTokenExpiry(claims, now(), skew); err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "토큰이 만료되었습니다.")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			log.Debug("token without usable user id", zap.Error(err))
			return helper.JsonError(c, fiber.StatusUnauthorized, "유효하지 않은 토큰입니다.")
		}

		c.Locals(helper.LocUserID, userID.String())
		c.Locals(helper.LocUserRole, extractRole(claims))
		return c.Next()
	}
}
