package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/tokens"
	"github.com/labstack/echo/v4"
)

// UsernameKey is the echo context key holding the verified token subject.
const UsernameKey = "username"

func unauthorized(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, message).SetInternal(apperrors.ErrInvalidToken)
}

// JWTAuthMiddleware checks for a valid bearer token and stores its subject
// under UsernameKey. Requests without one never reach the handler.
func JWTAuthMiddleware(tokenService *tokens.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("WWW-Authenticate", "Bearer")

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized("Not authenticated")
			}

			// Expecting "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorized("Invalid Authorization header format")
			}

			username, err := tokenService.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return unauthorized("Could not validate credentials")
			}

			c.Response().Header().Del("WWW-Authenticate")
			c.Set(UsernameKey, username)
			return next(c)
		}
	}
}

// CurrentUsername returns the subject stored by JWTAuthMiddleware.
func CurrentUsername(c echo.Context) (string, bool) {
	username, ok := c.Get(UsernameKey).(string)
	return username, ok && username != ""
}
