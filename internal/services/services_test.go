package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/internal/repositories"
	"github.com/anonto42/social-auth/backend/internal/services"
	"github.com/anonto42/social-auth/backend/internal/util"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store       *repositories.Store
	credentials *services.CredentialService
	posts       *services.PostService
	clock       *util.StubClock
}

func newTestEnv() *testEnv {
	store := repositories.NewMemoryStore()
	posts := services.NewPostService(store)
	clock := util.NewStubClock()
	posts.Clock = clock
	return &testEnv{
		store:       store,
		credentials: services.NewCredentialService(store.Users, bcrypt.MinCost),
		posts:       posts,
		clock:       clock,
	}
}

func (env *testEnv) register(t *testing.T, username string) *models.User {
	user, err := env.credentials.Register(context.Background(), models.SignupRequest{
		Username: username,
		Password: gofakeit.Password(true, true, true, false, false, 12),
	})
	require.NoError(t, err)
	return user
}

func TestRegisterStoresSaltedHash(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.credentials.Register(ctx, models.SignupRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	second, err := env.credentials.Register(ctx, models.SignupRequest{Username: "bob", Password: "pw1"})
	require.NoError(t, err)

	require.NotContains(t, first.HashedPassword, "pw1")
	require.True(t, strings.HasPrefix(first.HashedPassword, "$2"))
	// Same password, different salt.
	require.NotEqual(t, first.HashedPassword, second.HashedPassword)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.credentials.Register(ctx, models.SignupRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	_, err = env.credentials.Register(ctx, models.SignupRequest{Username: "alice", Password: "other"})
	require.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestRegisterRequiresCredentials(t *testing.T) {
	env := newTestEnv()
	_, err := env.credentials.Register(context.Background(), models.SignupRequest{Username: "alice"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestVerify(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, err := env.credentials.Register(ctx, models.SignupRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	user, err := env.credentials.Verify(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	_, err = env.credentials.Verify(ctx, "alice", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.credentials.Verify(ctx, "nobody", "pw1")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestVerifyDisabledUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, env.store.Users.CreateUser(ctx, &models.User{
		Username:       "carol",
		HashedPassword: string(hash),
		Disabled:       true,
	}))

	_, err = env.credentials.Verify(ctx, "carol", "pw1")
	require.ErrorIs(t, err, apperrors.ErrInactiveUser)

	// A wrong password on a disabled account reads as bad credentials.
	_, err = env.credentials.Verify(ctx, "carol", "nope")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestResolveCreatesOnceThenFinds(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	identity := models.ExternalIdentity{
		UID:           gofakeit.UUID(),
		Email:         gofakeit.Email(),
		EmailVerified: true,
		FullName:      "Dana Example",
	}

	created, err := env.credentials.Resolve(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, services.FirebaseUsernamePrefix+identity.UID, created.Username)
	require.Equal(t, identity.UID, created.FirebaseUID)
	require.Equal(t, "Dana Example", created.FullName)

	// The uid alone finds the account again, even after an email change.
	identity.Email = gofakeit.Email()
	found, err := env.credentials.Resolve(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = env.credentials.Resolve(ctx, models.ExternalIdentity{Email: identity.Email, EmailVerified: true})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveRejectsUnverifiedEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	victim, err := env.credentials.Register(ctx, models.SignupRequest{
		Username: "victim", Password: "pw", Email: "victim@example.com",
	})
	require.NoError(t, err)

	_, err = env.credentials.Resolve(ctx, models.ExternalIdentity{
		UID: "attacker-uid", Email: victim.Email, EmailVerified: false,
	})
	require.ErrorIs(t, err, apperrors.ErrUnverifiedEmail)

	// The victim's account stays unlinked.
	stored, err := env.store.Users.GetUserByUsername(ctx, "victim")
	require.NoError(t, err)
	require.Empty(t, stored.FirebaseUID)
	_, err = env.store.Users.GetUserByFirebaseUID(ctx, "attacker-uid")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveLinksVerifiedEmailToLocalAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	local, err := env.credentials.Register(ctx, models.SignupRequest{
		Username: "erin", Password: "pw", Email: "erin@example.com",
	})
	require.NoError(t, err)

	linked, err := env.credentials.Resolve(ctx, models.ExternalIdentity{
		UID: "erin-uid", Email: "erin@example.com", EmailVerified: true,
	})
	require.NoError(t, err)
	require.Equal(t, local.ID, linked.ID)
	require.Equal(t, "erin-uid", linked.FirebaseUID)

	// A second identity with the same email does not take the account over.
	other, err := env.credentials.Resolve(ctx, models.ExternalIdentity{
		UID: "other-uid", Email: "erin@example.com", EmailVerified: true,
	})
	require.NoError(t, err)
	require.NotEqual(t, local.ID, other.ID)
	require.Equal(t, services.FirebaseUsernamePrefix+"other-uid", other.Username)
}

func TestResolveIgnoresUsernameEqualToEmail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	// Someone registered the address as a username, without an email.
	squatter := env.register(t, "dana@example.com")

	user, err := env.credentials.Resolve(ctx, models.ExternalIdentity{
		UID: "dana-uid", Email: "dana@example.com", EmailVerified: true,
	})
	require.NoError(t, err)
	require.NotEqual(t, squatter.ID, user.ID)
	require.Equal(t, services.FirebaseUsernamePrefix+"dana-uid", user.Username)
}

func TestRegisterRejectsReservedPrefix(t *testing.T) {
	env := newTestEnv()
	_, err := env.credentials.Register(context.Background(), models.SignupRequest{
		Username: services.FirebaseUsernamePrefix + "uid-1", Password: "pw",
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveWithoutEmail(t *testing.T) {
	env := newTestEnv()
	user, err := env.credentials.Resolve(context.Background(), models.ExternalIdentity{UID: "phone-uid"})
	require.NoError(t, err)
	require.Equal(t, services.FirebaseUsernamePrefix+"phone-uid", user.Username)
	require.Empty(t, user.Email)
}

func TestCreateAndList(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "alice")
	env.register(t, "bob")

	post, err := env.posts.Create(ctx, "alice", models.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)
	require.Equal(t, "alice", post.Owner)
	require.Equal(t, "hi", post.Content)
	require.Equal(t, env.clock.NowUtc(), post.CreatedAt)

	other, err := env.posts.Create(ctx, "bob", models.CreatePostRequest{Content: "hey"})
	require.NoError(t, err)
	require.NotEqual(t, post.ID, other.ID)

	posts, err := env.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, post.ID, posts[0].ID)
	require.Equal(t, "alice", posts[0].Owner)
	require.Equal(t, "hi", posts[0].Content)
	require.Equal(t, other.ID, posts[1].ID)
}

func TestCreateIDsAreUnique(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "alice")

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		post, err := env.posts.Create(ctx, "alice", models.CreatePostRequest{Content: gofakeit.LetterN(24)})
		require.NoError(t, err)
		require.False(t, seen[post.ID], "duplicate id %s", post.ID)
		seen[post.ID] = true
	}
}

func TestCreateUnknownOwner(t *testing.T) {
	env := newTestEnv()
	_, err := env.posts.Create(context.Background(), "ghost", models.CreatePostRequest{Content: "boo"})
	require.ErrorIs(t, err, apperrors.ErrUnknownOwner)

	posts, err := env.posts.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestUpdate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "alice")
	env.register(t, "bob")

	post, err := env.posts.Create(ctx, "alice", models.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)

	// Act: bob cannot edit alice's post.
	_, err = env.posts.Update(ctx, post.ID, "bob", "pwned")
	require.ErrorIs(t, err, apperrors.ErrNotAuthorized)
	got, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "hi", got.Content)

	// Act: alice can.
	later := env.clock.Advance(time.Minute)
	updated, err := env.posts.Update(ctx, post.ID, "alice", "hello")
	require.NoError(t, err)
	require.Equal(t, post.ID, updated.ID)
	require.Equal(t, "alice", updated.Owner)
	require.Equal(t, "hello", updated.Content)
	require.Equal(t, later, updated.UpdatedAt)

	_, err = env.posts.Update(ctx, uuid.NewString(), "alice", "x")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetLike(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.register(t, "alice")
	env.register(t, "bob")
	env.register(t, "carol")

	post, err := env.posts.Create(ctx, "alice", models.CreatePostRequest{Content: "hi"})
	require.NoError(t, err)

	_, err = env.posts.SetLike(ctx, post.ID, "alice", models.LikeRequest{Liked: true})
	require.ErrorIs(t, err, apperrors.ErrSelfLike)
	_, err = env.posts.GetLike(ctx, post.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	like, err := env.posts.SetLike(ctx, post.ID, "bob", models.LikeRequest{Liked: true})
	require.NoError(t, err)
	require.Equal(t, post.ID, like.PostID)
	require.True(t, like.Liked)
	require.Equal(t, "bob", like.Actor)

	// Act: a later reaction overwrites the record.
	_, err = env.posts.SetLike(ctx, post.ID, "carol", models.LikeRequest{Disliked: true})
	require.NoError(t, err)
	got, err := env.posts.GetLike(ctx, post.ID)
	require.NoError(t, err)
	require.False(t, got.Liked)
	require.True(t, got.Disliked)
	require.Equal(t, "carol", got.Actor)

	_, err = env.posts.SetLike(ctx, uuid.NewString(), "bob", models.LikeRequest{Liked: true})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
