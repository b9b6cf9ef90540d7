package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"bookclub_backend/internals/constants"
)

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx, allowCookie bool) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" && allowCookie {
		if tok := strings.TrimSpace(c.Cookies("access_token")); tok != "" {
			auth = "Bearer " + tok
		}
	}
	if auth == "" {
		return "", errors.New("no token provided")
	}

	// tolerate double spaces and any casing of the scheme
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("empty token")
	}
	return tok, nil
}

// validateTokenExpiry requires an exp claim; skew absorbs clock drift between issuer and us.
func validateTokenExpiry(claims jwt.MapClaims, now time.Time, skew time.Duration) error {
	if _, ok := claims["exp"]; !ok {
		return errors.New("token has no exp")
	}
	if !claims.VerifyExpiresAt(now.Add(-skew).Unix(), true) {
		return fmt.Errorf("token expired")
	}
	return nil
}

// extractUserID reads id, sub or user_id in that order.
func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	for _, key := range []string{"id", "sub", "user_id"} {
		if s := strClaim(claims, key); s != "" {
			id, err := uuid.Parse(s)
			if err != nil || id == uuid.Nil {
				return uuid.Nil, fmt.Errorf("invalid %s claim", key)
			}
			return id, nil
		}
	}
	return uuid.Nil, errors.New("no user id")
}

func extractRole(claims jwt.MapClaims) string {
	return constants.NormalizeRole(strClaim(claims, "role"))
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
