// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/medportfolio/medportfolio/internal/auth"
	authsvc "codeberg.org/medportfolio/medportfolio/internal/services/auth"
	"codeberg.org/medportfolio/medportfolio/internal/services/token"
	"github.com/labstack/echo/v4"
)

// LoginRequest is the request body of the admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Admin       token.Identity `json:"admin"`
	Message     string         `json:"message"`
}

// ChangePasswordRequest is the request body of a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Login checks admin credentials and issues an access token.
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := decodeBody(c, &req); err != nil {
		return bindError(c, err)
	}

	ctx := c.Request().Context()
	ok, err := h.credentials.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("login_failed", "username", req.Username, "ip", c.RealIP())
		return jsonError(c, http.StatusUnauthorized, "Invalid credentials")
	}

	identity := token.Identity{Username: req.Username}
	issued, err := h.tokens.Issue(identity)
	if err != nil {
		return err
	}

	slog.Info("login_success", "username", req.Username, "ip", c.RealIP())
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresAt:   issued.ExpiresAt,
		Admin:       identity,
		Message:     "Login successful",
	})
}

// ChangePassword replaces the password of the authenticated admin.
func (h *Handlers) ChangePassword(c echo.Context) error {
	admin, ok := auth.GetAdmin(c.Request().Context())
	if !ok {
		return echo.ErrUnauthorized
	}

	var req ChangePasswordRequest
	if err := decodeBody(c, &req); err != nil {
		return bindError(c, err)
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return jsonError(c, http.StatusBadRequest, "Old and new password are required")
	}

	err := h.credentials.ChangePassword(c.Request().Context(), admin.Username, req.OldPassword, req.NewPassword)
	if err != nil {
		var validationErr *authsvc.PasswordValidationError
		switch {
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			return jsonError(c, http.StatusBadRequest, "Current password is incorrect")
		case errors.As(err, &validationErr):
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":   validationErr.Error(),
				"details": validationErr.Messages(),
			})
		case errors.Is(err, authsvc.ErrAdminNotFound):
			return jsonError(c, http.StatusNotFound, "Admin not found")
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// Me returns the authenticated admin.
func (h *Handlers) Me(c echo.Context) error {
	admin, ok := auth.GetAdmin(c.Request().Context())
	if !ok {
		return echo.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, map[string]any{"admin": admin})
}
