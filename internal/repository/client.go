// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"strings"

	"codeberg.org/medportfolio/medportfolio/internal/models"
)

const clientColumns = `id, name, email, phone, address, project_type, message,
	status, read_by_admin, admin_notes, created_at`

// CreateClient stores a new contact submission. Status, read flag and
// creation time are set here; the caller supplies the contact fields.
func (r *Repository) CreateClient(ctx context.Context, client *models.Client) error {
	client.Status = models.StatusNew
	client.ReadByAdmin = false
	client.CreatedAt = r.now()

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (name, email, phone, address, project_type, message, status, read_by_admin, admin_notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.Name, client.Email, client.Phone, client.Address, client.ProjectType,
		client.Message, client.Status, client.ReadByAdmin, client.AdminNotes, client.CreatedAt,
	)
	if err != nil {
		return err
	}

	client.ID, err = result.LastInsertId()
	return err
}

// GetClientByID retrieves a submission by ID.
// Returns sql.ErrNoRows if it does not exist.
func (r *Repository) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	if err := r.db.GetContext(ctx, &client, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients returns submissions matching the filter, newest first.
func (r *Repository) ListClients(ctx context.Context, filter models.ClientFilter) ([]models.Client, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.UnreadOnly {
		where = append(where, "read_by_admin = 0")
	}

	query := "SELECT " + clientColumns + " FROM clients"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, err
	}
	return clients, nil
}

// UpdateClient applies the non-nil fields of update and returns the stored row.
// Returns sql.ErrNoRows if the submission does not exist.
func (r *Repository) UpdateClient(ctx context.Context, id int64, update models.ClientUpdate) (*models.Client, error) {
	if update.Empty() {
		return r.GetClientByID(ctx, id)
	}

	var (
		set  []string
		args []any
	)
	if update.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *update.Status)
	}
	if update.AdminNotes != nil {
		set = append(set, "admin_notes = ?")
		args = append(args, *update.AdminNotes)
	}
	if update.ReadByAdmin != nil {
		set = append(set, "read_by_admin = ?")
		args = append(args, *update.ReadByAdmin)
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE clients SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	return r.GetClientByID(ctx, id)
}

// CountClients returns the total number of submissions and how many are unread.
func (r *Repository) CountClients(ctx context.Context) (total, unread int64, err error) {
	var counts struct {
		Total  int64 `db:"total"`
		Unread int64 `db:"unread"`
	}
	err = r.db.GetContext(ctx, &counts,
		"SELECT count(*) AS total, coalesce(sum(CASE WHEN read_by_admin = 0 THEN 1 ELSE 0 END), 0) AS unread FROM clients",
	)
	if err != nil {
		return 0, 0, err
	}
	return counts.Total, counts.Unread, nil
}
