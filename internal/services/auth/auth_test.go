// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"testing"

	"codeberg.org/medportfolio/medportfolio/internal/repository"
	"codeberg.org/medportfolio/medportfolio/internal/services/auth"
	"codeberg.org/medportfolio/medportfolio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*auth.Service, *repository.Repository) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	return auth.NewService(repo, auth.WithBcryptCost(bcrypt.MinCost)), repo
}

func TestVerify(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	ok, err := svc.Verify(context.Background(), "admin", "admin9048")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_WrongPassword(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	ok, err := svc.Verify(context.Background(), "admin", "wrong")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_UnknownUserIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.Verify(context.Background(), "nobody", "admin9048")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	require.NoError(t, svc.SetPassword(ctx, "admin", "a-new-passphrase"))

	ok, err := svc.Verify(ctx, "admin", "a-new-passphrase")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "admin", "admin9048")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetPassword_FreshSaltEachTime(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	require.NoError(t, svc.SetPassword(ctx, "admin", "same-passphrase"))
	first, err := repo.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.SetPassword(ctx, "admin", "same-passphrase"))
	second, err := repo.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)

	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
	assert.NotContains(t, second.PasswordHash, "same-passphrase")
}

func TestSetPassword_UnknownAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SetPassword(context.Background(), "nobody", "a-new-passphrase")

	assert.ErrorIs(t, err, auth.ErrAdminNotFound)
}

func TestSetPassword_Empty(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	err := svc.SetPassword(context.Background(), "admin", "")

	assert.ErrorIs(t, err, auth.ErrEmptyPassword)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	require.NoError(t, svc.ChangePassword(ctx, "admin", "admin9048", "blue-heron-river"))

	ok, err := svc.Verify(ctx, "admin", "blue-heron-river")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, repo := newTestService(t)
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	err := svc.ChangePassword(context.Background(), "admin", "wrong", "blue-heron-river")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestChangePassword_WeakNewPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	testutil.NewTestAdmin(t, repo, "admin", "admin9048")

	err := svc.ChangePassword(ctx, "admin", "admin9048", "short")

	var validationErr *auth.PasswordValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "min_length", validationErr.Errors[0].Code)

	// The old password keeps working.
	ok, err := svc.Verify(ctx, "admin", "admin9048")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin", "admin9048"))

	ok, err := svc.Verify(ctx, "admin", "admin9048")
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnsureDefaultAdmin_Idempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin", "admin9048"))
	require.NoError(t, svc.SetPassword(ctx, "admin", "changed-passphrase"))
	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "admin", "admin9048"))

	count, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A re-seed must not reset a changed password.
	ok, err := svc.Verify(ctx, "admin", "changed-passphrase")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureDefaultAdmin_MissingPassword(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.EnsureDefaultAdmin(context.Background(), "admin", "")

	assert.ErrorIs(t, err, auth.ErrEmptyPassword)
}
