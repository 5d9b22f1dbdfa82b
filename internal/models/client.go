// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"slices"
	"time"
)

// Client statuses.
const (
	StatusNew        = "new"
	StatusContacted  = "contacted"
	StatusInProgress = "in_progress"
	StatusClosed     = "closed"
)

// Statuses lists every status a client submission can be in.
var Statuses = []string{StatusNew, StatusContacted, StatusInProgress, StatusClosed}

// ValidStatus reports whether s is a known client status.
func ValidStatus(s string) bool {
	return slices.Contains(Statuses, s)
}

// Client is a contact-form submission.
type Client struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	Address     string    `db:"address" json:"address"`
	ProjectType string    `db:"project_type" json:"project_type"`
	Message     string    `db:"message" json:"message"`
	Status      string    `db:"status" json:"status"`
	ReadByAdmin bool      `db:"read_by_admin" json:"read_by_admin"`
	AdminNotes  string    `db:"admin_notes" json:"admin_notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClientFilter narrows a client listing. Zero values match everything.
type ClientFilter struct {
	Status     string
	UnreadOnly bool
}

// ClientUpdate carries the admin-editable fields. Nil fields are left unchanged.
type ClientUpdate struct {
	Status      *string
	AdminNotes  *string
	ReadByAdmin *bool
}

// Empty reports whether the update changes nothing.
func (u ClientUpdate) Empty() bool {
	return u.Status == nil && u.AdminNotes == nil && u.ReadByAdmin == nil
}
