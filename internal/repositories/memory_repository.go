package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
)

// MemoryUserRepository keeps users in a mutex-guarded map keyed by username
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]models.User
	nextID uint
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (r *MemoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return fmt.Errorf("user %q: %w", user.Username, apperrors.ErrAlreadyExists)
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = *user
	return nil
}

func (r *MemoryUserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.User
	for _, user := range r.users {
		if user.Email != email {
			continue
		}
		// Lowest id wins, matching the relational repository.
		if found == nil || user.ID < found.ID {
			u := user
			found = &u
		}
	}
	if found == nil {
		return nil, fmt.Errorf("user with email %q: %w", email, apperrors.ErrNotFound)
	}
	return found, nil
}

func (r *MemoryUserRepository) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if uid != "" && user.FirebaseUID == uid {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with firebase uid %q: %w", uid, apperrors.ErrNotFound)
}

func (r *MemoryUserRepository) LinkFirebaseUID(_ context.Context, username, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[username]
	if !ok || user.FirebaseUID != "" {
		return fmt.Errorf("user %q already linked or missing: %w", username, apperrors.ErrAlreadyExists)
	}
	user.FirebaseUID = uid
	r.users[username] = user
	return nil
}

// MemoryPostRepository keeps posts in insertion order
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []models.Post
	index map[string]int
}

// NewMemoryPostRepository creates an empty MemoryPostRepository
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{index: make(map[string]int)}
}

func (r *MemoryPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[post.ID]; exists {
		return fmt.Errorf("post %q: %w", post.ID, apperrors.ErrAlreadyExists)
	}
	stored := *post
	stored.OwnerUser = nil
	r.index[post.ID] = len(r.posts)
	r.posts = append(r.posts, stored)
	return nil
}

func (r *MemoryPostRepository) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", id, apperrors.ErrNotFound)
	}
	post := r.posts[i]
	return &post, nil
}

func (r *MemoryPostRepository) GetAllPosts(_ context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, len(r.posts))
	copy(posts, r.posts)
	return posts, nil
}

func (r *MemoryPostRepository) UpdatePostContent(_ context.Context, id, content string, updatedAt time.Time) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", id, apperrors.ErrNotFound)
	}
	r.posts[i].Content = content
	r.posts[i].UpdatedAt = updatedAt
	post := r.posts[i]
	return &post, nil
}

// MemoryLikeRepository keeps one like record per post id
type MemoryLikeRepository struct {
	mu    sync.RWMutex
	likes map[string]models.Like
}

// NewMemoryLikeRepository creates an empty MemoryLikeRepository
func NewMemoryLikeRepository() *MemoryLikeRepository {
	return &MemoryLikeRepository{likes: make(map[string]models.Like)}
}

func (r *MemoryLikeRepository) SetLike(_ context.Context, like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[like.PostID] = *like
	return nil
}

func (r *MemoryLikeRepository) GetLike(_ context.Context, postID string) (*models.Like, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	like, ok := r.likes[postID]
	if !ok {
		return nil, fmt.Errorf("like for post %q: %w", postID, apperrors.ErrNotFound)
	}
	return &like, nil
}
