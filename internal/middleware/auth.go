// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware contains the echo middlewares shared by the routes.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/medportfolio/medportfolio/internal/auth"
	"codeberg.org/medportfolio/medportfolio/internal/services/token"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// Guard response messages.
const (
	MsgAuthRequired = "Authentication required"
	MsgTokenExpired = "Token has expired"
	MsgInvalidToken = "Invalid token"
)

// TokenVerifier checks a bearer token and returns the admin it belongs to.
type TokenVerifier interface {
	Verify(raw string) (token.Identity, error)
}

// RequireAdmin rejects requests without a valid bearer token with 401.
// On success the admin identity is stored in the request context.
func RequireAdmin(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := BearerToken(c.Request())
			if err == nil {
				var identity token.Identity
				identity, err = verifier.Verify(raw)
				if err == nil {
					ctx := auth.WithAdmin(c.Request().Context(), identity)
					c.SetRequest(c.Request().WithContext(ctx))
					return next(c)
				}
			}

			slog.Debug("access_denied", "path", c.Path(), "reason", err)
			return echo.NewHTTPError(http.StatusUnauthorized, guardMessage(err))
		}
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", token.ErrMissingToken
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return "", token.ErrMissingToken
	}
	return raw, nil
}

func guardMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrMissingToken):
		return MsgAuthRequired
	case errors.Is(err, token.ErrExpiredToken):
		return MsgTokenExpired
	default:
		return MsgInvalidToken
	}
}
