package handlers

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/internal/services"
	"github.com/anonto42/social-auth/backend/internal/tokens"
	"github.com/labstack/echo/v4"
)

// IDTokenVerifier verifies Firebase ID tokens; *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	credentials  *services.CredentialService
	tokens       *tokens.Service
	firebaseAuth IDTokenVerifier
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, in
// which case /firebase-login is not registered.
func NewAuthHandler(credentials *services.CredentialService, tokenService *tokens.Service, firebaseAuth IDTokenVerifier) *AuthHandler {
	return &AuthHandler{
		credentials:  credentials,
		tokens:       tokenService,
		firebaseAuth: firebaseAuth,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/token", h.Login, m...)
	g.POST("/signup", h.Signup, m...)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin, m...)
	}
}

// Login exchanges a username and password, sent as a form or JSON, for an access token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.credentials.Verify(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(c, err)
	}
	return h.respondWithToken(c, user.Username)
}

// Signup registers a new user and logs them in. Credentials may arrive as
// query parameters, a form post or JSON.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.credentials.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(c, err)
	}
	c.Logger().Infof("registered user %s", user.Username)
	return h.respondWithToken(c, user.Username)
}

// FirebaseLogin verifies a Firebase ID token and issues a local access token
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	identity := models.ExternalIdentity{UID: token.UID}
	identity.Email, _ = token.Claims["email"].(string)
	identity.EmailVerified, _ = token.Claims["email_verified"].(bool)
	identity.FullName, _ = token.Claims["name"].(string)

	user, err := h.credentials.Resolve(c.Request().Context(), identity)
	if err != nil {
		return httpError(c, err)
	}
	return h.respondWithToken(c, user.Username)
}

func (h *AuthHandler) respondWithToken(c echo.Context, username string) error {
	accessToken, err := h.tokens.Issue(username)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   tokens.TokenType,
	})
}
