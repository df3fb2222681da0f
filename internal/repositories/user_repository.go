package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	LinkFirebaseUID(ctx context.Context, username, uid string) error
}

// GormUserRepository implements UserRepository on the user_detail table
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUser inserts user, failing with ErrAlreadyExists when the username is taken
func (r *GormUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrAlreadyExists
		}
		return tx.Create(user).Error
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %q: %w", user.Username, apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("GormUserRepository.CreateUser: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user by username
func (r *GormUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("GormUserRepository.GetUserByUsername: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("id").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %q: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("GormUserRepository.GetUserByEmail: %w", err)
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves the user linked to a Firebase identity
func (r *GormUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		// Local-only users store an empty uid.
		return nil, fmt.Errorf("empty firebase uid: %w", apperrors.ErrNotFound)
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", uid).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with firebase uid %q: %w", uid, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("GormUserRepository.GetUserByFirebaseUID: %w", err)
	}
	return &user, nil
}

// LinkFirebaseUID records uid on an account that has none yet
func (r *GormUserRepository) LinkFirebaseUID(ctx context.Context, username, uid string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND (firebase_uid IS NULL OR firebase_uid = '')", username).
		Update("firebase_uid", uid)
	if res.Error != nil {
		return fmt.Errorf("GormUserRepository.LinkFirebaseUID: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %q already linked or missing: %w", username, apperrors.ErrAlreadyExists)
	}
	return nil
}
