// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues and verifies signed admin access tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultLifetime is how long an issued token stays valid.
const DefaultLifetime = 24 * time.Hour

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrEmptySecret  = errors.New("signing secret must not be empty")
)

// Identity is the admin identity carried inside a token.
type Identity struct {
	Username string `json:"username"`
}

// Claims is the token payload.
type Claims struct {
	Admin Identity `json:"admin"`
	jwt.RegisteredClaims
}

// Issued is a freshly signed token.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Service signs and verifies tokens with an HMAC-SHA256 secret.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLifetime overrides DefaultLifetime.
func WithLifetime(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lifetime = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a token service. The secret must not be empty.
func NewService(secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	s := &Service{
		secret:   []byte(secret),
		lifetime: DefaultLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Lifetime returns the configured token lifetime.
func (s *Service) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token for the given admin identity.
func (s *Service) Issue(identity Identity) (Issued, error) {
	if identity.Username == "" {
		return Issued{}, fmt.Errorf("%w: empty username", ErrInvalidToken)
	}

	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.lifetime)

	claims := Claims{
		Admin: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Issued{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature and expiry of raw and returns its identity.
// An expired token reports ErrExpiredToken even when its signature is also bad.
func (s *Service) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || s.expiredUnverified(raw) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Admin.Username == "" {
		return Identity{}, ErrInvalidToken
	}

	return claims.Admin, nil
}

func (s *Service) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}

// expiredUnverified reads the exp claim without checking the signature.
func (s *Service) expiredUnverified(raw string) bool {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !s.now().Before(claims.ExpiresAt.Time)
}
