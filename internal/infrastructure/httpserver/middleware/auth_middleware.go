package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/internal/core/ports"
)

// AuthMiddleware validates bearer session tokens and sets user context.
type AuthMiddleware struct {
	tokens ports.TokenIssuer
	logger *logrus.Logger
}

func NewAuthMiddleware(tokens ports.TokenIssuer, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// RequireToken creates middleware that rejects requests without a valid
// Authorization: Bearer token.
func (m *AuthMiddleware) RequireToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please Login - No such auth header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := m.tokens.Verify(tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("token validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Please Login - JWT error")
			}
			if claims.UserID == uuid.Nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("user_name", claims.Name)
			c.Set("user_email", claims.Email)

			return next(c)
		}
	}
}
