package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrAlreadyExists      = errors.New("resource already exists") // e.g., username taken
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnknownOwner       = errors.New("token subject does not reference a known user")
	ErrUnverifiedEmail    = errors.New("identity provider has not verified the email")
	ErrNotAuthorized      = errors.New("caller does not own the resource")
	ErrSelfLike           = errors.New("cannot like or dislike your own post")
	ErrValidation         = errors.New("validation failed")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
// Non-owner updates and self-likes surface as 404 so the API never reveals
// whether the post exists to a caller who may not touch it.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInactiveUser),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUnknownOwner),
		errors.Is(err, ErrUnverifiedEmail):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrSelfLike):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the client-facing text for err. Wrapped context is
// dropped so storage details never leak into responses.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Incorrect username or password"
	case errors.Is(err, ErrInactiveUser):
		return "Inactive user"
	case errors.Is(err, ErrAlreadyExists):
		return "Username exists"
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnknownOwner), errors.Is(err, ErrUnverifiedEmail):
		return "Could not validate credentials"
	case errors.Is(err, ErrSelfLike):
		return "Post not found or user not authorized"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotAuthorized):
		return "Post not found"
	case errors.Is(err, ErrRateLimited):
		return "Too many requests"
	case errors.Is(err, ErrValidation):
		return err.Error()
	}
	return "Internal server error"
}
