package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/vocali/vocali-backend/app/entity"
)

type currentUserResolver interface {
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
}

type AuthMiddleware struct {
	authService currentUserResolver
}

func NewAuthMiddleware(authService currentUserResolver) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth resolves the bearer token to an active, verified user and
// stores it in the request context. Every failure mode is the same 401.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid token",
			})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid token",
			})
		}

		user, err := m.authService.CurrentUser(c.Request().Context(), parts[1])
		if err != nil {
			logrus.Debug("Could not resolve user from token")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid token",
			})
		}

		c.Set("user", user)
		c.Set("access_token", parts[1])

		return next(c)
	}
}
