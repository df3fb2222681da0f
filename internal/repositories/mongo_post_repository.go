package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPostRepository implements PostRepository for MongoDB. Documents keep
// the owner's username instead of the relational owner_id.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("post %q: %w", post.ID, apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("MongoPostRepository.CreatePost: %w", err)
	}
	return nil
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %q: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("MongoPostRepository.GetPostByID: %w", err)
	}
	return &post, nil
}

// GetAllPosts retrieves all posts sorted by id, which is creation order
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("MongoPostRepository.GetAllPosts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("MongoPostRepository.GetAllPosts: %w", err)
	}
	return posts, nil
}

// UpdatePostContent replaces the content of a post and returns the new document
func (r *MongoPostRepository) UpdatePostContent(ctx context.Context, id, content string, updatedAt time.Time) (*models.Post, error) {
	update := bson.M{
		"$set": bson.M{
			"content":    content,
			"updated_at": updatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %q: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("MongoPostRepository.UpdatePostContent: %w", err)
	}
	return &post, nil
}
