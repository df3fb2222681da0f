package repositories

import (
	"fmt"

	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store bundles the repositories the services depend on.
type Store struct {
	Users UserRepository
	Posts PostRepository
	Likes LikeRepository
}

// NewMemoryStore returns a Store that lives entirely in process memory.
func NewMemoryStore() *Store {
	return &Store{
		Users: NewMemoryUserRepository(),
		Posts: NewMemoryPostRepository(),
		Likes: NewMemoryLikeRepository(),
	}
}

// NewStore picks a backend per repository: the relational database when
// sqlDB is set (memory otherwise), MongoDB for posts when mongoDB is set and
// Redis for like records when rdb is set.
func NewStore(sqlDB *gorm.DB, mongoDB *mongo.Database, rdb *redis.Client) *Store {
	store := NewMemoryStore()
	if sqlDB != nil {
		store.Users = NewGormUserRepository(sqlDB)
		store.Posts = NewGormPostRepository(sqlDB)
		store.Likes = NewGormLikeRepository(sqlDB)
	}
	if mongoDB != nil {
		store.Posts = NewMongoPostRepository(mongoDB)
	}
	if rdb != nil {
		store.Likes = NewRedisLikeRepository(rdb)
	}
	return store
}

// AutoMigrate creates the user_detail, posts and post_likes tables if absent.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
