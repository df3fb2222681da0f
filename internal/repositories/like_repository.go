package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository stores one like record per post; SetLike overwrites.
type LikeRepository interface {
	SetLike(ctx context.Context, like *models.Like) error
	GetLike(ctx context.Context, postID string) (*models.Like, error)
}

// GormLikeRepository implements LikeRepository on the post_likes table
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

// SetLike upserts the like record for like.PostID
func (r *GormLikeRepository) SetLike(ctx context.Context, like *models.Like) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"liked", "disliked", "actor", "updated_at"}),
	}).Create(like).Error
	if err != nil {
		return fmt.Errorf("GormLikeRepository.SetLike: %w", err)
	}
	return nil
}

// GetLike retrieves the like record of a post
func (r *GormLikeRepository) GetLike(ctx context.Context, postID string) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Take(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("like for post %q: %w", postID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("GormLikeRepository.GetLike: %w", err)
	}
	return &like, nil
}
