// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"codeberg.org/medportfolio/medportfolio/internal/auth"
	"codeberg.org/medportfolio/medportfolio/internal/models"
	"github.com/labstack/echo/v4"
)

const (
	msgClientRequired = "Name, email, and message are required"
	msgClientNotFound = "Client not found"
	msgClientCreated  = "Thank you for your message! We will contact you soon."
)

// CreateClientRequest is the body of a contact form submission.
type CreateClientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ProjectType string `json:"project_type"`
}

// UpdateClientRequest carries the admin-editable fields of a submission.
type UpdateClientRequest struct {
	Status      *string `json:"status"`
	AdminNotes  *string `json:"admin_notes"`
	ReadByAdmin *bool   `json:"read_by_admin"`
}

// CreateClient stores a contact form submission.
func (h *Handlers) CreateClient(c echo.Context) error {
	var req CreateClientRequest
	if err := decodeBody(c, &req); err != nil {
		return bindError(c, err)
	}

	if blank(req.Name) || blank(req.Email) || blank(req.Message) {
		return jsonError(c, http.StatusBadRequest, msgClientRequired)
	}

	// Stored exactly as submitted.
	client := &models.Client{
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		Phone:       req.Phone,
		Address:     req.Address,
		ProjectType: req.ProjectType,
	}

	ctx := c.Request().Context()
	if err := h.repo.CreateClient(ctx, client); err != nil {
		return err
	}
	slog.Info("client_created", "client_id", client.ID, "email", client.Email)

	if h.notifier != nil {
		if err := h.notifier.NotifyNewClient(ctx, client); err != nil {
			slog.Error("client notification failed", "client_id", client.ID, "error", err)
		}
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": msgClientCreated,
		"client": map[string]any{
			"id":    client.ID,
			"name":  client.Name,
			"email": client.Email,
		},
	})
}

// ListClients returns the submissions, newest first.
func (h *Handlers) ListClients(c echo.Context) error {
	filter := models.ClientFilter{
		Status:     c.QueryParam("status"),
		UnreadOnly: c.QueryParam("unread") == "true",
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return jsonError(c, http.StatusBadRequest, "Invalid status")
	}

	ctx := c.Request().Context()
	clients, err := h.repo.ListClients(ctx, filter)
	if err != nil {
		return err
	}
	total, unread, err := h.repo.CountClients(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"clients": clients,
		"total":   total,
		"unread":  unread,
	})
}

// GetClient returns a single submission.
func (h *Handlers) GetClient(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid client id")
	}

	client, err := h.repo.GetClientByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, http.StatusNotFound, msgClientNotFound)
		}
		return err
	}

	return c.JSON(http.StatusOK, client)
}

// UpdateClient changes status, notes or read flag of a submission.
func (h *Handlers) UpdateClient(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid client id")
	}

	var req UpdateClientRequest
	if err := decodeBody(c, &req); err != nil {
		return bindError(c, err)
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		return jsonError(c, http.StatusBadRequest, "Invalid status")
	}

	update := models.ClientUpdate{
		Status:      req.Status,
		AdminNotes:  req.AdminNotes,
		ReadByAdmin: req.ReadByAdmin,
	}

	client, err := h.repo.UpdateClient(c.Request().Context(), id, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, http.StatusNotFound, msgClientNotFound)
		}
		return err
	}

	admin, _ := auth.GetAdmin(c.Request().Context())
	slog.Info("client_updated", "client_id", client.ID, "admin", admin.Username)

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Client updated",
		"client":  client,
	})
}

func clientID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid client id")
	}
	return id, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
