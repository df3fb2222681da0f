package validators

import (
	"fmt"
	"net/http"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator plugs go-playground/validator into echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate runs the struct's validate tags. Failures become 400 responses.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		wrapped := fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(wrapped)
	}
	return nil
}
