package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const likeKeyPrefix = "post_likes:"

// RedisLikeRepository keeps each like record in a hash at post_likes:<post_id>.
// HSET replaces every field, so the last write wins.
type RedisLikeRepository struct {
	rdb *redis.Client
}

// NewRedisLikeRepository creates a new RedisLikeRepository
func NewRedisLikeRepository(rdb *redis.Client) *RedisLikeRepository {
	return &RedisLikeRepository{rdb: rdb}
}

func likeKey(postID string) string {
	return likeKeyPrefix + postID
}

func (r *RedisLikeRepository) SetLike(ctx context.Context, like *models.Like) error {
	err := r.rdb.HSet(ctx, likeKey(like.PostID),
		"liked", strconv.FormatBool(like.Liked),
		"disliked", strconv.FormatBool(like.Disliked),
		"actor", like.Actor,
		"updated_at", like.UpdatedAt.UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("RedisLikeRepository.SetLike: %w", err)
	}
	return nil
}

func (r *RedisLikeRepository) GetLike(ctx context.Context, postID string) (*models.Like, error) {
	fields, err := r.rdb.HGetAll(ctx, likeKey(postID)).Result()
	if err != nil {
		return nil, fmt.Errorf("RedisLikeRepository.GetLike: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("like for post %q: %w", postID, apperrors.ErrNotFound)
	}

	like := &models.Like{PostID: postID, Actor: fields["actor"]}
	if like.Liked, err = strconv.ParseBool(fields["liked"]); err != nil {
		return nil, fmt.Errorf("RedisLikeRepository.GetLike: liked: %w", err)
	}
	if like.Disliked, err = strconv.ParseBool(fields["disliked"]); err != nil {
		return nil, fmt.Errorf("RedisLikeRepository.GetLike: disliked: %w", err)
	}
	if raw := fields["updated_at"]; raw != "" {
		if like.UpdatedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return nil, fmt.Errorf("RedisLikeRepository.GetLike: updated_at: %w", err)
		}
	}
	return like, nil
}
