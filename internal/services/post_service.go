package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/internal/repositories"
	"github.com/anonto42/social-auth/backend/internal/util"
	"github.com/google/uuid"
)

// PostService implements posting, editing and liking on top of a Store.
type PostService struct {
	store *repositories.Store
	Clock util.Clock
}

func NewPostService(store *repositories.Store) *PostService {
	return &PostService{store: store, Clock: util.NewRealClock()}
}

// List returns every post in creation order.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.store.Posts.GetAllPosts(ctx)
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.store.Posts.GetPostByID(ctx, id)
}

// Create stores a new post owned by owner. The owner must be a known user.
func (s *PostService) Create(ctx context.Context, owner string, req models.CreatePostRequest) (*models.Post, error) {
	user, err := s.store.Users.GetUserByUsername(ctx, owner)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("owner %q: %w", owner, apperrors.ErrUnknownOwner)
		}
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post id: %w", err)
	}

	now := s.Clock.NowUtc()
	post := &models.Post{
		ID:        id.String(),
		Title:     req.Title,
		Content:   req.Content,
		OwnerID:   user.ID,
		Owner:     user.Username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update replaces the content of post id. Only the owner may update it.
func (s *PostService) Update(ctx context.Context, id, owner, content string) (*models.Post, error) {
	existing, err := s.store.Posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Owners never change, so the check cannot go stale before the write.
	if existing.Owner != owner {
		return nil, fmt.Errorf("post %q updated by %q: %w", id, owner, apperrors.ErrNotAuthorized)
	}
	return s.store.Posts.UpdatePostContent(ctx, id, content, s.Clock.NowUtc())
}

// SetLike overwrites the like record of post postID. Owners cannot react to
// their own posts.
func (s *PostService) SetLike(ctx context.Context, postID, actor string, req models.LikeRequest) (*models.Like, error) {
	post, err := s.store.Posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Owner == actor {
		return nil, fmt.Errorf("post %q: %w", postID, apperrors.ErrSelfLike)
	}

	like := &models.Like{
		PostID:    post.ID,
		Liked:     req.Liked,
		Disliked:  req.Disliked,
		Actor:     actor,
		UpdatedAt: s.Clock.NowUtc(),
	}
	if err := s.store.Likes.SetLike(ctx, like); err != nil {
		return nil, err
	}
	return like, nil
}

// GetLike returns the current like record of a post.
func (s *PostService) GetLike(ctx context.Context, postID string) (*models.Like, error) {
	if _, err := s.store.Posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.Likes.GetLike(ctx, postID)
}
