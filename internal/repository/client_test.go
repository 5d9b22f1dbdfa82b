// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"codeberg.org/medportfolio/medportfolio/internal/models"
	"codeberg.org/medportfolio/medportfolio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	client := &models.Client{
		Name:        "Jane",
		Email:       "jane@x.com",
		Phone:       "+254 700 000000",
		Address:     "Nairobi",
		ProjectType: "patient-education",
		Message:     "Hi",
	}

	require.NoError(t, repo.CreateClient(ctx, client))
	assert.NotZero(t, client.ID)

	stored, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Name)
	assert.Equal(t, "jane@x.com", stored.Email)
	assert.Equal(t, "+254 700 000000", stored.Phone)
	assert.Equal(t, "Nairobi", stored.Address)
	assert.Equal(t, "patient-education", stored.ProjectType)
	assert.Equal(t, "Hi", stored.Message)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.False(t, stored.ReadByAdmin)
	assert.Empty(t, stored.AdminNotes)
	assert.NotZero(t, stored.CreatedAt)
}

func TestCreateClient_IgnoresCallerStatus(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	client := &models.Client{Name: "Jane", Email: "jane@x.com", Message: "Hi", Status: models.StatusClosed, ReadByAdmin: true}
	require.NoError(t, repo.CreateClient(ctx, client))

	stored, err := repo.GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.False(t, stored.ReadByAdmin)
}

func TestGetClientByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetClientByID(context.Background(), 999)

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListClients_Empty(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	clients, err := repo.ListClients(context.Background(), models.ClientFilter{})

	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestListClients_NewestFirst(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	first := testutil.NewTestClient(t, repo, "first")
	second := testutil.NewTestClient(t, repo, "second")

	clients, err := repo.ListClients(context.Background(), models.ClientFilter{})

	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, second.ID, clients[0].ID)
	assert.Equal(t, first.ID, clients[1].ID)
}

func TestListClients_Filter(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	a := testutil.NewTestClient(t, repo, "a")
	b := testutil.NewTestClient(t, repo, "b")
	testutil.NewTestClient(t, repo, "c")

	contacted := models.StatusContacted
	read := true
	_, err := repo.UpdateClient(ctx, a.ID, models.ClientUpdate{Status: &contacted})
	require.NoError(t, err)
	_, err = repo.UpdateClient(ctx, b.ID, models.ClientUpdate{ReadByAdmin: &read})
	require.NoError(t, err)

	byStatus, err := repo.ListClients(ctx, models.ClientFilter{Status: models.StatusContacted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, a.ID, byStatus[0].ID)

	unread, err := repo.ListClients(ctx, models.ClientFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	newUnread, err := repo.ListClients(ctx, models.ClientFilter{Status: models.StatusNew, UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, newUnread, 1)
}

func TestUpdateClient(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	client := testutil.NewTestClient(t, repo, "jane")

	status := models.StatusInProgress
	notes := "Called back on Monday"
	read := true
	updated, err := repo.UpdateClient(ctx, client.ID, models.ClientUpdate{
		Status:      &status,
		AdminNotes:  &notes,
		ReadByAdmin: &read,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, notes, updated.AdminNotes)
	assert.True(t, updated.ReadByAdmin)
	assert.Equal(t, client.Name, updated.Name)
}

func TestUpdateClient_Partial(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	client := testutil.NewTestClient(t, repo, "jane")

	notes := "follow up"
	updated, err := repo.UpdateClient(ctx, client.ID, models.ClientUpdate{AdminNotes: &notes})

	require.NoError(t, err)
	assert.Equal(t, "follow up", updated.AdminNotes)
	assert.Equal(t, models.StatusNew, updated.Status)
	assert.False(t, updated.ReadByAdmin)
}

func TestUpdateClient_EmptyUpdateReturnsRow(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	client := testutil.NewTestClient(t, repo, "jane")

	updated, err := repo.UpdateClient(context.Background(), client.ID, models.ClientUpdate{})

	require.NoError(t, err)
	assert.Equal(t, client.ID, updated.ID)
}

func TestUpdateClient_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	read := true
	_, err := repo.UpdateClient(context.Background(), 999, models.ClientUpdate{ReadByAdmin: &read})

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCountClients(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	total, unread, err := repo.CountClients(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, unread)

	a := testutil.NewTestClient(t, repo, "a")
	testutil.NewTestClient(t, repo, "b")

	read := true
	_, err = repo.UpdateClient(ctx, a.ID, models.ClientUpdate{ReadByAdmin: &read})
	require.NoError(t, err)

	total, unread, err = repo.CountClients(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), unread)
}
