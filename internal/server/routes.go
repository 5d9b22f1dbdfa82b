// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"codeberg.org/medportfolio/medportfolio/internal/config"
	"codeberg.org/medportfolio/medportfolio/internal/handlers"
	"codeberg.org/medportfolio/medportfolio/internal/middleware"
	"github.com/labstack/echo/v4"
)

func setupRoutes(e *echo.Echo, cfg *config.Config, h *handlers.Handlers, tokens middleware.TokenVerifier) {
	// Static files
	e.Static("/static", cfg.Server.StaticDir)

	// Pages
	e.GET("/", h.Home)
	e.GET("/admin-portal", h.AdminPortal)
	e.GET("/admin-login", h.AdminLogin)
	e.GET("/test-form", h.TestForm)

	// Public API
	api := e.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/clients", h.CreateClient)
	api.POST("/admin/login", h.Login)

	// Admin API
	admin := api.Group("/admin", middleware.RequireAdmin(tokens))
	admin.GET("/me", h.Me)
	admin.POST("/change-password", h.ChangePassword)
	admin.GET("/clients", h.ListClients)
	admin.GET("/clients/:id", h.GetClient)
	admin.PATCH("/clients/:id", h.UpdateClient)
}
