// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers implements the HTTP handlers of the JSON API and pages.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"codeberg.org/medportfolio/medportfolio/internal/models"
	"codeberg.org/medportfolio/medportfolio/internal/repository"
	"codeberg.org/medportfolio/medportfolio/internal/services/token"
	"codeberg.org/medportfolio/medportfolio/internal/templates"
	"github.com/labstack/echo/v4"
)

// ServiceName is reported by the health check.
const ServiceName = "Medical Portfolio API"

// Credentials verifies and changes admin passwords.
type Credentials interface {
	Verify(ctx context.Context, username, password string) (bool, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

// TokenIssuer signs access tokens for authenticated admins.
type TokenIssuer interface {
	Issue(identity token.Identity) (token.Issued, error)
}

// Notifier is told about new contact submissions.
type Notifier interface {
	NotifyNewClient(ctx context.Context, client *models.Client) error
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo            *repository.Repository
	credentials     Credentials
	tokens          TokenIssuer
	notifier        Notifier
	uploadDir       string
	defaultUsername string
	now             func() time.Time
}

// Option configures Handlers.
type Option func(*Handlers)

// WithNotifier enables new-client notifications.
func WithNotifier(n Notifier) Option {
	return func(h *Handlers) {
		h.notifier = n
	}
}

// WithUploadDir sets the upload directory reported on the home page.
func WithUploadDir(dir string) Option {
	return func(h *Handlers) {
		h.uploadDir = dir
	}
}

// WithDefaultUsername pre-fills the admin portal login form.
func WithDefaultUsername(username string) Option {
	return func(h *Handlers) {
		h.defaultUsername = username
	}
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, credentials Credentials, tokens TokenIssuer, opts ...Option) *Handlers {
	h := &Handlers{
		repo:        repo,
		credentials: credentials,
		tokens:      tokens,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":           "healthy",
		"timestamp":        h.now().Format(time.RFC3339),
		"service":          ServiceName,
		"database":         h.databaseReady(c.Request().Context()),
		"admin_portal_url": "/admin-portal",
	})
}

// Home renders the marketing page.
func (h *Handlers) Home(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Home(templates.HomeData{
		DatabaseReady: h.databaseReady(c.Request().Context()),
		UploadsReady:  dirExists(h.uploadDir),
	}))
}

// AdminPortal renders the admin login and lead list.
func (h *Handlers) AdminPortal(c echo.Context) error {
	return Render(c, http.StatusOK, templates.AdminPortal(templates.PortalData{
		DefaultUsername: h.defaultUsername,
	}))
}

// AdminLogin redirects to the admin portal.
func (h *Handlers) AdminLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/admin-portal")
}

// TestForm renders the contact test form.
func (h *Handlers) TestForm(c echo.Context) error {
	return Render(c, http.StatusOK, templates.TestForm())
}

func (h *Handlers) databaseReady(ctx context.Context) bool {
	if h.repo == nil {
		return false
	}
	if err := h.repo.Ping(ctx); err != nil {
		slog.Warn("database ping failed", "error", err)
		return false
	}
	return true
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
