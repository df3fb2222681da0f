// Package tokens issues and verifies the signed bearer tokens handed out by
// the /token and /signup endpoints.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/social-auth/backend/internal/apperrors"
	"github.com/anonto42/social-auth/backend/internal/util"
	"github.com/golang-jwt/jwt/v4"
)

// DefaultTTL is the lifetime of an access token.
const DefaultTTL = 30 * time.Minute

// TokenType is reported alongside every issued token.
const TokenType = "bearer"

// Service signs HS256 tokens whose subject is the username.
type Service struct {
	secret []byte
	ttl    time.Duration
	Clock  util.Clock
}

// NewService creates a token Service. A non-positive ttl falls back to DefaultTTL.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		Clock:  util.NewRealClock(),
	}, nil
}

// TTL reports how long issued tokens stay valid.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed token for username expiring TTL from now.
func (s *Service) Issue(username string) (string, error) {
	now := s.Clock.NowUtc()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token for %q: %w", username, err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its subject.
// Every failure is reported as apperrors.ErrInvalidToken.
func (s *Service) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("empty token: %w", apperrors.ErrInvalidToken)
	}

	// Time-based claims are checked below against the service clock instead
	// of jwt's package-level time source.
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, apperrors.ErrInvalidToken)
	}
	if !token.Valid {
		return "", apperrors.ErrInvalidToken
	}

	now := s.Clock.NowUtc()
	if !claims.VerifyExpiresAt(now, true) {
		return "", fmt.Errorf("token expired or has no expiry: %w", apperrors.ErrInvalidToken)
	}
	if !claims.VerifyNotBefore(now, false) {
		return "", fmt.Errorf("token not valid yet: %w", apperrors.ErrInvalidToken)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject: %w", apperrors.ErrInvalidToken)
	}
	return claims.Subject, nil
}
