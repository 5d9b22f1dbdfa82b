// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"codeberg.org/medportfolio/medportfolio/internal/database"
	"codeberg.org/medportfolio/medportfolio/internal/models"
	"codeberg.org/medportfolio/medportfolio/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, repository.New(db)
}

// NewTestAdmin creates an admin identity with the given password.
func NewTestAdmin(t *testing.T, repo *repository.Repository, username, password string) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin, err := repo.CreateAdmin(context.Background(), username, string(hash))
	require.NoError(t, err)
	return admin
}

// NewTestClient creates a contact submission.
func NewTestClient(t *testing.T, repo *repository.Repository, name string) *models.Client {
	t.Helper()
	client := &models.Client{
		Name:    name,
		Email:   name + "@example.com",
		Message: "Hello from " + name,
	}
	require.NoError(t, repo.CreateClient(context.Background(), client))
	return client
}

// NewEchoContext creates an Echo context for handler tests with a JSON body.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
