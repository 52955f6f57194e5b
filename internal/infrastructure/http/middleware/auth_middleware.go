package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/essence-team/essence-backend/pkg/jwt"
)

const (
	// UserIDContextKey is the echo context key for the attributed user id
	UserIDContextKey = "user_id"
)

// EchoOptionalAuth returns an Echo middleware that resolves the requesting
// user from a bearer token when one is present. Requests without a token (or
// with an invalid one) proceed anonymously: every endpoint here is public and
// the token only improves activity attribution.
func EchoOptionalAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token != "" && manager != nil {
				if claims, err := manager.ValidateAccessToken(token); err == nil {
					c.Set(UserIDContextKey, claims.UserID)
				}
			}
			return next(c)
		}
	}
}

// UserIDFromContext returns the attributed user id, or "" when anonymous
func UserIDFromContext(c echo.Context) string {
	if userID, ok := c.Get(UserIDContextKey).(string); ok {
		return userID
	}
	return ""
}

func extractToken(c echo.Context) string {
	// Try Authorization header first
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Try cookie as fallback
	cookie, err := c.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}
