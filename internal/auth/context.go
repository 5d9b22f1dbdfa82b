// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"codeberg.org/medportfolio/medportfolio/internal/ctxkeys"
	"codeberg.org/medportfolio/medportfolio/internal/services/token"
)

// WithAdmin returns a copy of ctx carrying the authenticated admin identity.
func WithAdmin(ctx context.Context, admin token.Identity) context.Context {
	return context.WithValue(ctx, ctxkeys.Admin{}, admin)
}

// GetAdmin returns the authenticated admin from the context.
func GetAdmin(ctx context.Context) (token.Identity, bool) {
	admin, ok := ctx.Value(ctxkeys.Admin{}).(token.Identity)
	return admin, ok
}
