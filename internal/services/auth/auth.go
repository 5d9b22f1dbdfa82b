// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth is the credential store for administrator identities.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/medportfolio/medportfolio/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrEmptyPassword      = errors.New("password must not be empty")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Service verifies and updates admin credentials.
type Service struct {
	repo              *repository.Repository
	passwordValidator *PasswordValidator
	cost              int
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// NewService creates a credential store backed by repo.
func NewService(repo *repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:              repo,
		passwordValidator: DefaultPasswordValidator(),
		cost:              bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify reports whether username and password match a stored identity.
// Unknown usernames and wrong passwords both return false; the error is
// reserved for storage failures.
func (s *Service) Verify(ctx context.Context, username, password string) (bool, error) {
	admin, err := s.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return false, nil
		}
		return false, fmt.Errorf("failed to get admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// SetPassword re-hashes newPassword with a fresh salt and stores it.
func (s *Service) SetPassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return ErrEmptyPassword
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateAdminPassword(ctx, username, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password_changed", "username", username)
	return nil
}

// ChangePassword replaces the password of an admin who knows the current one.
func (s *Service) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	ok, err := s.Verify(ctx, username, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if err := s.passwordValidator.Validate(newPassword, username); err != nil {
		return err
	}

	return s.SetPassword(ctx, username, newPassword)
}

// EnsureDefaultAdmin seeds an admin identity when none exists yet.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	if username == "" || password == "" {
		return fmt.Errorf("default admin requires username and password: %w", ErrEmptyPassword)
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	admin, err := s.repo.CreateAdmin(ctx, username, hash)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("default_admin_created", "admin_id", admin.ID, "username", admin.Username)
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
