// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"codeberg.org/medportfolio/medportfolio/internal/i18n"
)

// T translates a message by ID.
func T(ctx context.Context, messageID string) string {
	return i18n.T(ctx, messageID)
}

// Locale returns the current locale.
func Locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// Readiness renders a ready/missing flag in the current locale.
func Readiness(ctx context.Context, ready bool) string {
	if ready {
		return i18n.T(ctx, "status_ready")
	}
	return i18n.T(ctx, "status_missing")
}

// ScriptLabels returns the translated messages handed to page scripts.
func ScriptLabels(ctx context.Context, messageIDs ...string) map[string]string {
	return i18n.Messages(ctx, messageIDs...)
}
