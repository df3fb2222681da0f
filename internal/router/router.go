package router

import (
	"log"
	"net"
	"net/http"

	"github.com/anonto42/social-auth/backend/internal/handlers"
	"github.com/anonto42/social-auth/backend/internal/middleware"
	"github.com/anonto42/social-auth/backend/internal/repositories"
	"github.com/anonto42/social-auth/backend/internal/services"
	"github.com/anonto42/social-auth/backend/internal/tokens"
	"github.com/anonto42/social-auth/backend/validators"
	"github.com/labstack/echo/v4"
)

// Dependencies are the collaborators SetupRoutes wires into handlers.
type Dependencies struct {
	Store        *repositories.Store
	Tokens       *tokens.Service
	BcryptCost   int
	FirebaseAuth handlers.IDTokenVerifier // optional
	// AuthRatePerMinute throttles credential endpoints per client IP; 0 disables.
	AuthRatePerMinute int
	// TrustedProxies may set X-Forwarded-For; without any, the peer address is the client IP.
	TrustedProxies []*net.IPNet
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.Validator = validators.NewValidator()
	e.IPExtractor = middleware.ClientIPExtractor(deps.TrustedProxies)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "social-auth API"})
	})

	credentials := services.NewCredentialService(deps.Store.Users, deps.BcryptCost)
	posts := services.NewPostService(deps.Store)
	requireAuth := middleware.JWTAuthMiddleware(deps.Tokens)

	api := e.Group("")

	// --- Unprotected routes for authentication ---
	var authMiddleware []echo.MiddlewareFunc
	if deps.AuthRatePerMinute > 0 {
		authMiddleware = append(authMiddleware, middleware.NewRateLimiter(deps.AuthRatePerMinute).Middleware())
	}
	authHandler := handlers.NewAuthHandler(credentials, deps.Tokens, deps.FirebaseAuth)
	authHandler.RegisterAuthRoutes(api, authMiddleware...)
	log.Println("Auth routes configured.")

	// Post routes; writes require a bearer token
	postHandler := handlers.NewPostHandler(posts)
	postHandler.RegisterPostRoutes(api, requireAuth)
	log.Println("Post routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(posts)
	likeHandler.RegisterLikeRoutes(api, requireAuth)
	log.Println("Like routes configured.")

	log.Println("All routes configured.")
}
