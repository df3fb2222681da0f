package handlers

import (
	"net/http"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/middleware"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	posts *services.PostService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(posts *services.PostService) *LikeHandler {
	return &LikeHandler{posts: posts}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/post/:id/like", h.LikePost, requireAuth)
	g.GET("/post/:id/like", h.GetLike)
}

// LikePost records the caller's like/dislike on someone else's post
func (h *LikeHandler) LikePost(c echo.Context) error {
	username, ok := middleware.CurrentUsername(c)
	if !ok {
		return httpError(c, apperrors.ErrInvalidToken)
	}

	var req models.LikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	like, err := h.posts.SetLike(c.Request().Context(), c.Param("id"), username, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, like)
}

// GetLike returns the current like record of a post
func (h *LikeHandler) GetLike(c echo.Context) error {
	like, err := h.posts.GetLike(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, like)
}
