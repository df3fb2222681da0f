package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/models"
	"github.com/anonto42/social-auth/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// CredentialService registers users and checks their passwords.
type CredentialService struct {
	userRepo repositories.UserRepository
	cost     int
}

// NewCredentialService creates a CredentialService hashing with the given
// bcrypt cost. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewCredentialService(userRepo repositories.UserRepository, cost int) *CredentialService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{userRepo: userRepo, cost: cost}
}

// Register stores a new user with a bcrypt hash of password.
func (s *CredentialService) Register(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required: %w", apperrors.ErrValidation)
	}
	if strings.HasPrefix(req.Username, FirebaseUsernamePrefix) {
		return nil, fmt.Errorf("usernames starting with %q are reserved: %w", FirebaseUsernamePrefix, apperrors.ErrValidation)
	}
	return s.create(ctx, &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
	}, req.Password)
}

func (s *CredentialService) create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hashedPassword)
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify returns the user when password matches the stored hash.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrInactiveUser)
	}
	return user, nil
}

// FirebaseUsernamePrefix namespaces the usernames of accounts created
// through Firebase so they never collide with locally chosen usernames.
const FirebaseUsernamePrefix = "firebase:"

// Resolve finds the local user for an identity already verified by an
// external provider, creating one on first sight.
//
// Accounts are matched by provider uid. An existing local account is linked
// by email only when the provider vouches for that email; an unverified email
// is rejected outright. Created users get a random password, so they can only
// sign in through the provider.
func (s *CredentialService) Resolve(ctx context.Context, identity models.ExternalIdentity) (*models.User, error) {
	if identity.UID == "" {
		return nil, fmt.Errorf("external identity has no uid: %w", apperrors.ErrValidation)
	}
	if identity.Email != "" && !identity.EmailVerified {
		return nil, fmt.Errorf("email %q: %w", identity.Email, apperrors.ErrUnverifiedEmail)
	}

	user, err := s.userRepo.GetUserByFirebaseUID(ctx, identity.UID)
	switch {
	case err == nil:
		return activeUser(user)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if identity.Email != "" {
		user, err = s.userRepo.GetUserByEmail(ctx, identity.Email)
		switch {
		case err == nil && user.FirebaseUID == "":
			if err := s.userRepo.LinkFirebaseUID(ctx, user.Username, identity.UID); err != nil {
				return nil, err
			}
			user.FirebaseUID = identity.UID
			return activeUser(user)
		case err == nil:
			// Owned by another Firebase identity; this one gets its own account.
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	return s.create(ctx, &models.User{
		Username:    FirebaseUsernamePrefix + identity.UID,
		FullName:    identity.FullName,
		Email:       identity.Email,
		FirebaseUID: identity.UID,
	}, hex.EncodeToString(secret))
}

func activeUser(user *models.User) (*models.User, error) {
	if user.Disabled {
		return nil, fmt.Errorf("user %q: %w", user.Username, apperrors.ErrInactiveUser)
	}
	return user, nil
}
