// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"codeberg.org/medportfolio/medportfolio/internal/handlers"
	"codeberg.org/medportfolio/medportfolio/internal/models"
	"codeberg.org/medportfolio/medportfolio/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	clients []*models.Client
	err     error
}

func (n *fakeNotifier) NotifyNewClient(_ context.Context, client *models.Client) error {
	n.clients = append(n.clients, client)
	return n.err
}

func countClients(t *testing.T, env *testEnv) int64 {
	t.Helper()
	total, _, err := env.repo.CountClients(context.Background())
	require.NoError(t, err)
	return total
}

func TestCreateClient(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/clients",
		strings.NewReader(`{"name":"Jane","email":"jane@x.com","message":"Hi"}`))

	require.NoError(t, env.h.CreateClient(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "Thank you for your message! We will contact you soon.", body["message"])
	client, ok := body["client"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane", client["name"])
	assert.Equal(t, "jane@x.com", client["email"])
	assert.InDelta(t, 1, client["id"], 0)

	stored, err := env.repo.GetClientByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Name)
	assert.Equal(t, "jane@x.com", stored.Email)
	assert.Equal(t, "Hi", stored.Message)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.False(t, stored.ReadByAdmin)
}

func TestCreateClient_OptionalFields(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/clients", strings.NewReader(
		`{"name":"Jane","email":"jane@x.com","message":"Hi","phone":"123","address":"Berlin","project_type":"leaflet","status":"closed"}`))

	require.NoError(t, env.h.CreateClient(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	stored, err := env.repo.GetClientByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Name)
	assert.Equal(t, "123", stored.Phone)
	assert.Equal(t, "Berlin", stored.Address)
	assert.Equal(t, "leaflet", stored.ProjectType)
	assert.Equal(t, models.StatusNew, stored.Status)
}

func TestCreateClient_StoresFieldsAsSubmitted(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/clients", strings.NewReader(
		`{"name":"  Jane ","email":" jane@x.com","message":"Line one\nLine two\n","phone":" 123 "}`))

	require.NoError(t, env.h.CreateClient(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	stored, err := env.repo.GetClientByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "  Jane ", stored.Name)
	assert.Equal(t, " jane@x.com", stored.Email)
	assert.Equal(t, "Line one\nLine two\n", stored.Message)
	assert.Equal(t, " 123 ", stored.Phone)
}

func TestCreateClient_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"jane@x.com","message":"Hi"}`},
		{"missing email", `{"name":"Jane","message":"Hi"}`},
		{"missing message", `{"name":"Jane","email":"jane@x.com"}`},
		{"blank name", `{"name":"   ","email":"jane@x.com","message":"Hi"}`},
		{"blank message", `{"name":"Jane","email":"jane@x.com","message":"\n\t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			e := echo.New()
			c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/clients", strings.NewReader(tt.body))

			require.NoError(t, env.h.CreateClient(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Name, email, and message are required"}`, rec.Body.String())
			assert.Zero(t, countClients(t, env))
		})
	}
}

func TestCreateClient_NoData(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/clients", strings.NewReader(""))

	require.NoError(t, env.h.CreateClient(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No data provided"}`, rec.Body.String())
	assert.Zero(t, countClients(t, env))
}

func TestCreateClient_Notifies(t *testing.T) {
	notifier := &fakeNotifier{}
	env := newTestEnv(t, handlers.WithNotifier(notifier))
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/clients",
		strings.NewReader(`{"name":"Jane","email":"jane@x.com","message":"Hi"}`))

	require.NoError(t, env.h.CreateClient(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, notifier.clients, 1)
	assert.Equal(t, "Jane", notifier.clients[0].Name)
	assert.NotZero(t, notifier.clients[0].ID)
}

func TestCreateClient_NotifierFailureIsIgnored(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	env := newTestEnv(t, handlers.WithNotifier(notifier))
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/clients",
		strings.NewReader(`{"name":"Jane","email":"jane@x.com","message":"Hi"}`))

	require.NoError(t, env.h.CreateClient(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), countClients(t, env))
}

func TestCreateClient_NotifierSkippedOnValidationError(t *testing.T) {
	notifier := &fakeNotifier{}
	env := newTestEnv(t, handlers.WithNotifier(notifier))
	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/api/clients", strings.NewReader(`{"name":"Jane"}`))

	require.NoError(t, env.h.CreateClient(c))

	assert.Empty(t, notifier.clients)
}

func TestListClients(t *testing.T) {
	env := newTestEnv(t)
	testutil.NewTestClient(t, env.repo, "alice")
	bob := testutil.NewTestClient(t, env.repo, "bob")
	read := true
	_, err := env.repo.UpdateClient(context.Background(), bob.ID, models.ClientUpdate{ReadByAdmin: &read})
	require.NoError(t, err)

	e := echo.New()
	c, rec := adminContext(e, http.MethodGet, "/api/admin/clients", "")

	require.NoError(t, env.h.ListClients(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.InDelta(t, 2, body["total"], 0)
	assert.InDelta(t, 1, body["unread"], 0)
	clients, ok := body["clients"].([]any)
	require.True(t, ok)
	require.Len(t, clients, 2)
	assert.Equal(t, "bob", clients[0].(map[string]any)["name"])
}

func TestListClients_UnreadOnly(t *testing.T) {
	env := newTestEnv(t)
	testutil.NewTestClient(t, env.repo, "alice")
	bob := testutil.NewTestClient(t, env.repo, "bob")
	read := true
	_, err := env.repo.UpdateClient(context.Background(), bob.ID, models.ClientUpdate{ReadByAdmin: &read})
	require.NoError(t, err)

	e := echo.New()
	c, rec := adminContext(e, http.MethodGet, "/api/admin/clients?unread=true", "")

	require.NoError(t, env.h.ListClients(c))

	clients, ok := decodeJSON(t, rec)["clients"].([]any)
	require.True(t, ok)
	require.Len(t, clients, 1)
	assert.Equal(t, "alice", clients[0].(map[string]any)["name"])
}

func TestListClients_Empty(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := adminContext(e, http.MethodGet, "/api/admin/clients", "")

	require.NoError(t, env.h.ListClients(c))

	assert.JSONEq(t, `{"clients":[],"total":0,"unread":0}`, rec.Body.String())
}

func TestListClients_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := adminContext(e, http.MethodGet, "/api/admin/clients?status=deleted", "")

	require.NoError(t, env.h.ListClients(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetClient(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.NewTestClient(t, env.repo, "jane")
	e := echo.New()
	c, rec := adminContext(e, http.MethodGet, "/api/admin/clients/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, env.h.GetClient(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, client.Name, body["name"])
	assert.Equal(t, client.Email, body["email"])
	assert.Equal(t, "new", body["status"])
	assert.Equal(t, false, body["read_by_admin"])
}

func TestGetClient_NotFound(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := adminContext(e, http.MethodGet, "/api/admin/clients/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, env.h.GetClient(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Client not found"}`, rec.Body.String())
}

func TestGetClient_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()

	for _, id := range []string{"abc", "0", "-1"} {
		c, rec := adminContext(e, http.MethodGet, "/api/admin/clients/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)

		require.NoError(t, env.h.GetClient(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestUpdateClient(t *testing.T) {
	env := newTestEnv(t)
	testutil.NewTestClient(t, env.repo, "jane")
	e := echo.New()
	c, rec := adminContext(e, http.MethodPatch, "/api/admin/clients/1",
		`{"status":"contacted","admin_notes":"Called back","read_by_admin":true}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, env.h.UpdateClient(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "Client updated", body["message"])
	client, ok := body["client"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "contacted", client["status"])
	assert.Equal(t, "Called back", client["admin_notes"])
	assert.Equal(t, true, client["read_by_admin"])
}

func TestUpdateClient_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	testutil.NewTestClient(t, env.repo, "jane")
	e := echo.New()
	c, rec := adminContext(e, http.MethodPatch, "/api/admin/clients/1", `{"status":"deleted"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, env.h.UpdateClient(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stored, err := env.repo.GetClientByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, stored.Status)
}

func TestUpdateClient_NotFound(t *testing.T) {
	env := newTestEnv(t)
	e := echo.New()
	c, rec := adminContext(e, http.MethodPatch, "/api/admin/clients/42", `{"read_by_admin":true}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, env.h.UpdateClient(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateClient_NoData(t *testing.T) {
	env := newTestEnv(t)
	testutil.NewTestClient(t, env.repo, "jane")
	e := echo.New()
	c, rec := adminContext(e, http.MethodPatch, "/api/admin/clients/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, env.h.UpdateClient(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No data provided"}`, rec.Body.String())
}
