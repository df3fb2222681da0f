package handlers

import (
	"net/http"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/middleware"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post routes. Reads are public; writes go
// through requireAuth.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/post", h.GetPosts)
	g.GET("/post/:id", h.GetPost)
	g.POST("/post", h.CreatePost, requireAuth)
	g.PUT("/post/:id", h.UpdatePost, requireAuth)
}

// GetPosts lists every post in creation order
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post owned by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	username, ok := middleware.CurrentUsername(c)
	if !ok {
		return httpError(c, apperrors.ErrInvalidToken)
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), username, req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost replaces the content of a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	username, ok := middleware.CurrentUsername(c)
	if !ok {
		return httpError(c, apperrors.ErrInvalidToken)
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.posts.Update(c.Request().Context(), c.Param("id"), username, req.Content)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}
