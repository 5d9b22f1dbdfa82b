// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"

	"codeberg.org/medportfolio/medportfolio/internal/models"
)

// CreateAdmin stores a new admin identity. Usernames are unique.
func (r *Repository) CreateAdmin(ctx context.Context, username, passwordHash string) (*models.AdminUser, error) {
	admin := &models.AdminUser{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    r.now(),
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO admin_users (username, password_hash, created_at) VALUES (?, ?, ?)",
		admin.Username, admin.PasswordHash, admin.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	admin.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// GetAdminByUsername retrieves an admin by username.
// Returns sql.ErrNoRows if no such admin exists.
func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.GetContext(ctx, &admin,
		"SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?",
		username,
	)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateAdminPassword overwrites the stored password hash.
// Returns sql.ErrNoRows if no such admin exists.
func (r *Repository) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE admin_users SET password_hash = ? WHERE username = ?",
		passwordHash, username,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountAdmins returns the number of admin identities.
func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM admin_users"); err != nil {
		return 0, err
	}
	return count, nil
}
