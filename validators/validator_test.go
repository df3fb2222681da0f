package validators_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := validators.NewValidator()

	require.NoError(t, v.Validate(&models.CreatePostRequest{Content: "hello"}))

	err := v.Validate(&models.CreatePostRequest{})
	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
	require.ErrorIs(t, httpErr.Internal, apperrors.ErrValidation)

	err = v.Validate(&models.SignupRequest{Username: "alice", Password: "pw", Email: "not-an-email"})
	require.Error(t, err)
}
