package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// GetAllPosts returns posts in creation order.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	UpdatePostContent(ctx context.Context, id, content string, updatedAt time.Time) (*models.Post, error)
}

// GormPostRepository implements PostRepository on the posts table
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// withOwner selects posts joined with their owner's username
func (r *GormPostRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, user_detail.username AS owner").
		Joins("JOIN user_detail ON user_detail.id = posts.owner_id")
}

// CreatePost inserts post. OwnerID must already reference user_detail.
func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("GormPostRepository.CreatePost: %w", err)
	}
	return nil
}

// GetPostByID retrieves a post by ID
func (r *GormPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.withOwner(ctx).Where("posts.id = ?", id).Take(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %q: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("GormPostRepository.GetPostByID: %w", err)
	}
	return &post, nil
}

// GetAllPosts retrieves every post. UUIDv7 ids sort in creation order.
func (r *GormPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.withOwner(ctx).Order("posts.id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("GormPostRepository.GetAllPosts: %w", err)
	}
	return posts, nil
}

// UpdatePostContent replaces the content of a post and returns the stored row.
// Existence is checked by reading the row: MySQL reports matched rows whose
// values did not change as unaffected.
func (r *GormPostRepository) UpdatePostContent(ctx context.Context, id, content string, updatedAt time.Time) (*models.Post, error) {
	if _, err := r.GetPostByID(ctx, id); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"description": content,
		"updated_at":  updatedAt,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("GormPostRepository.UpdatePostContent: %w", err)
	}
	return r.GetPostByID(ctx, id)
}
