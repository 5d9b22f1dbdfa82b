// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"codeberg.org/medportfolio/medportfolio/internal/i18n"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func englishContext(t *testing.T) context.Context {
	t.Helper()
	require.NoError(t, i18n.Init())
	return i18n.WithLocale(context.Background(), language.English)
}

func TestHome(t *testing.T) {
	ctx := englishContext(t)

	html := render(t, ctx, Home(HomeData{DatabaseReady: true, UploadsReady: false}))

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, `<html lang="en">`)
	assert.Contains(t, html, "<title>Medical Portfolio | Dr. Foscah Faith</title>")
	assert.Contains(t, html, "Medical Portfolio System")
	assert.Contains(t, html, `href="/admin-portal"`)
	assert.Contains(t, html, `href="/api/health"`)
	assert.Contains(t, html, `href="/test-form"`)
	assert.Contains(t, html, "Database: Ready")
	assert.Contains(t, html, "Upload Folder: Not found")
}

func TestHome_German(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.German)

	html := render(t, ctx, Home(HomeData{DatabaseReady: true, UploadsReady: true}))

	assert.Contains(t, html, `<html lang="de">`)
	assert.Contains(t, html, "Datenbank: Bereit")
}

func TestAdminPortal(t *testing.T) {
	ctx := englishContext(t)

	html := render(t, ctx, AdminPortal(PortalData{DefaultUsername: "admin"}))

	assert.Contains(t, html, "Admin Portal Login")
	assert.Contains(t, html, `id="username" name="username" value="admin"`)
	assert.Contains(t, html, `/static/js/admin-portal.js`)
	assert.NotContains(t, html, "admin9048")
}

func TestAdminPortal_ScriptLabels(t *testing.T) {
	require.NoError(t, i18n.Init())
	ctx := i18n.WithLocale(context.Background(), language.German)

	html := render(t, ctx, AdminPortal(PortalData{}))

	start := strings.Index(html, `<script id="portal-labels" type="application/json">`)
	require.NotEqual(t, -1, start)
	payload := html[start+len(`<script id="portal-labels" type="application/json">`):]
	payload = payload[:strings.Index(payload, "</script>")]

	var labels map[string]string
	require.NoError(t, json.Unmarshal([]byte(payload), &labels))
	assert.Equal(t, "Gesamt", labels["portal_total"])
	assert.Equal(t, "Als gelesen markieren", labels["portal_mark_read"])
	assert.Len(t, labels, len(portalScriptLabels))

	// the labels must be defined before the script that reads them
	assert.Less(t, start, strings.Index(html, "/static/js/admin-portal.js"))
}

func TestReadiness(t *testing.T) {
	ctx := englishContext(t)

	assert.Equal(t, "Ready", Readiness(ctx, true))
	assert.Equal(t, "Not found", Readiness(ctx, false))
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(englishContext(t))
	cancel()

	var buf bytes.Buffer
	err := Home(HomeData{}).Render(ctx, &buf)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdminPortal_EscapesUsername(t *testing.T) {
	ctx := englishContext(t)

	html := render(t, ctx, AdminPortal(PortalData{DefaultUsername: `"><script>`}))

	assert.NotContains(t, html, `"><script>`)
}

func TestTestForm(t *testing.T) {
	ctx := englishContext(t)

	html := render(t, ctx, TestForm())

	assert.Contains(t, html, "<title>Test Contact Form</title>")
	assert.Contains(t, html, `name="message"`)
	assert.Contains(t, html, `/static/js/contact-form.js`)
}
