package repositories_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/internal/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getTestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Each connection to :memory: is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.AutoMigrate(db))
	return db
}

func newMiniRedis(t *testing.T) *redis.Client {
	server := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, repositories.NewMemoryStore())
}

func TestGormStore(t *testing.T) {
	runStoreContract(t, repositories.NewStore(newSQLiteDB(t), nil, nil))
}

func TestGormStoreWithRedisLikes(t *testing.T) {
	store := repositories.NewStore(newSQLiteDB(t), nil, newMiniRedis(t))
	require.IsType(t, &repositories.RedisLikeRepository{}, store.Likes)
	runStoreContract(t, store)
}

func TestMongoPosts(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := getTestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	db := client.Database("socialauth_test_" + gofakeit.LetterN(8))
	defer db.Drop(context.Background())

	store := repositories.NewStore(nil, db, nil)
	require.IsType(t, &repositories.MongoPostRepository{}, store.Posts)
	runStoreContract(t, store)
}

func TestNewStoreDefaultsToMemory(t *testing.T) {
	store := repositories.NewStore(nil, nil, nil)
	require.IsType(t, &repositories.MemoryUserRepository{}, store.Users)
	require.IsType(t, &repositories.MemoryPostRepository{}, store.Posts)
	require.IsType(t, &repositories.MemoryLikeRepository{}, store.Likes)
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	store := repositories.NewMemoryStore()
	ctx := context.Background()
	username := gofakeit.Username()
	owner := createUser(t, ctx, store)

	const workers = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Users.CreateUser(ctx, &models.User{Username: username, HashedPassword: "x"})
			if err == nil {
				successes.Add(1)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
			}

			post := newPost(owner, fmt.Sprintf("post %d", i))
			assert.NoError(t, store.Posts.CreatePost(ctx, post))
			_, err = store.Posts.GetAllPosts(ctx)
			assert.NoError(t, err)
			_, err = store.Posts.UpdatePostContent(ctx, post.ID, "edited", time.Now().UTC())
			assert.NoError(t, err)
			assert.NoError(t, store.Likes.SetLike(ctx, &models.Like{PostID: post.ID, Liked: true, Actor: username}))
		}(i)
	}
	wg.Wait()

	// Exactly one signup wins the username.
	require.Equal(t, int32(1), successes.Load())
	posts, err := store.Posts.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, workers)
	for _, p := range posts {
		require.Equal(t, "edited", p.Content)
	}
}

func runStoreContract(t *testing.T, store *repositories.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, store) })
	t.Run("posts", func(t *testing.T) { testPosts(t, store) })
	t.Run("likes", func(t *testing.T) { testLikes(t, store) })
}

func createUser(t *testing.T, ctx context.Context, store *repositories.Store) *models.User {
	user := &models.User{
		Username:       gofakeit.Username() + gofakeit.DigitN(6),
		Email:          gofakeit.Email(),
		HashedPassword: "$2a$04$" + gofakeit.LetterN(53),
	}
	require.NoError(t, store.Users.CreateUser(ctx, user))
	require.NotZero(t, user.ID)
	return user
}

func newPost(owner *models.User, content string) *models.Post {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Post{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Content:   content,
		OwnerID:   owner.ID,
		Owner:     owner.Username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testUsers(t *testing.T, store *repositories.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	user := createUser(t, ctx, store)

	got, err := store.Users.GetUserByUsername(ctx, user.Username)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.HashedPassword, got.HashedPassword)

	byEmail, err := store.Users.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.Username, byEmail.Username)

	dup := &models.User{Username: user.Username, HashedPassword: "x"}
	err = store.Users.CreateUser(ctx, dup)
	require.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	// Act: link a Firebase identity once; a second link is refused.
	uid := gofakeit.UUID()
	_, err = store.Users.GetUserByFirebaseUID(ctx, uid)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, store.Users.LinkFirebaseUID(ctx, user.Username, uid))
	linked, err := store.Users.GetUserByFirebaseUID(ctx, uid)
	require.NoError(t, err)
	require.Equal(t, user.ID, linked.ID)
	err = store.Users.LinkFirebaseUID(ctx, user.Username, gofakeit.UUID())
	require.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	// Local-only users are never found by an empty uid.
	_, err = store.Users.GetUserByFirebaseUID(ctx, "")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = store.Users.GetUserByUsername(ctx, "missing-"+gofakeit.LetterN(10))
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.Users.GetUserByEmail(ctx, "missing-"+gofakeit.Email())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testPosts(t *testing.T, store *repositories.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	alice := createUser(t, ctx, store)
	bob := createUser(t, ctx, store)

	before, err := store.Posts.GetAllPosts(ctx)
	require.NoError(t, err)

	first := newPost(alice, "first")
	second := newPost(bob, "second")
	third := newPost(alice, "third")
	for _, p := range []*models.Post{first, second, third} {
		require.NoError(t, store.Posts.CreatePost(ctx, p))
	}

	// Act: list returns the new posts in creation order with owners resolved.
	all, err := store.Posts.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(before)+3)
	added := all[len(before):]
	require.Equal(t, []string{first.ID, second.ID, third.ID}, []string{added[0].ID, added[1].ID, added[2].ID})
	require.Equal(t, alice.Username, added[0].Owner)
	require.Equal(t, bob.Username, added[1].Owner)
	require.Equal(t, "second", added[1].Content)

	got, err := store.Posts.GetPostByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, bob.Username, got.Owner)
	require.Equal(t, "second", got.Content)

	// Act: replace content in place.
	updatedAt := time.Now().UTC().Add(time.Minute).Truncate(time.Millisecond)
	updated, err := store.Posts.UpdatePostContent(ctx, second.ID, "second, edited", updatedAt)
	require.NoError(t, err)
	require.Equal(t, second.ID, updated.ID)
	require.Equal(t, bob.Username, updated.Owner)
	require.Equal(t, "second, edited", updated.Content)

	got, err = store.Posts.GetPostByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "second, edited", got.Content)

	// Act: writing the same content at the same instant changes no row but
	// still succeeds.
	again, err := store.Posts.UpdatePostContent(ctx, second.ID, "second, edited", updatedAt)
	require.NoError(t, err)
	require.Equal(t, "second, edited", again.Content)

	_, err = store.Posts.GetPostByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.Posts.UpdatePostContent(ctx, uuid.NewString(), "nope", updatedAt)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testLikes(t *testing.T, store *repositories.Store) {
	ctx, cancel := getTestContext()
	defer cancel()

	postID := uuid.Must(uuid.NewV7()).String()

	_, err := store.Likes.GetLike(ctx, postID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Likes.SetLike(ctx, &models.Like{
		PostID: postID, Liked: true, Actor: "bob", UpdatedAt: now,
	}))
	got, err := store.Likes.GetLike(ctx, postID)
	require.NoError(t, err)
	require.True(t, got.Liked)
	require.False(t, got.Disliked)
	require.Equal(t, "bob", got.Actor)

	// Act: a second write replaces the first one.
	require.NoError(t, store.Likes.SetLike(ctx, &models.Like{
		PostID: postID, Disliked: true, Actor: "carol", UpdatedAt: now.Add(time.Second),
	}))
	got, err = store.Likes.GetLike(ctx, postID)
	require.NoError(t, err)
	require.False(t, got.Liked)
	require.True(t, got.Disliked)
	require.Equal(t, "carol", got.Actor)
	require.True(t, now.Add(time.Second).Equal(got.UpdatedAt))
}
