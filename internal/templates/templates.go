// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates holds the templ components of the HTML pages.
// The *_templ.go files are generated from the .templ sources with `templ generate`.
package templates

// HomeData is the system information shown on the home page.
type HomeData struct {
	DatabaseReady bool
	UploadsReady  bool
}

// PortalData configures the admin portal login form.
type PortalData struct {
	DefaultUsername string
}

// portalScriptLabels are the messages admin-portal.js needs at runtime.
var portalScriptLabels = []string{
	"portal_total",
	"portal_unread",
	"portal_mark_read",
	"portal_network_error",
}
