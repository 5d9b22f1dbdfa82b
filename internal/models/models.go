// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models holds the persisted records of the application.
package models

import "time"

// AdminUser is an administrator identity allowed to log into the portal.
type AdminUser struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
