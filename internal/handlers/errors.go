package handlers

import (
	"net/http"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
)

// httpError converts a service error into the response echo should send.
// Unexpected errors are logged; clients only see the public message.
func httpError(c echo.Context, err error) error {
	status := apperrors.HTTPStatusFromError(err)
	switch status {
	case http.StatusInternalServerError:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	case http.StatusUnauthorized:
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
	}
	return echo.NewHTTPError(status, apperrors.PublicMessage(err)).SetInternal(err)
}
