// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/medportfolio/medportfolio/internal/config"
	"codeberg.org/medportfolio/medportfolio/internal/database"
	"codeberg.org/medportfolio/medportfolio/internal/handlers"
	"codeberg.org/medportfolio/medportfolio/internal/i18n"
	"codeberg.org/medportfolio/medportfolio/internal/repository"
	authsvc "codeberg.org/medportfolio/medportfolio/internal/services/auth"
	"codeberg.org/medportfolio/medportfolio/internal/services/email"
	"codeberg.org/medportfolio/medportfolio/internal/services/token"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.NewFromCLI(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"database", cfg.Database.DSN,
	)
	if cfg.Auth.SecretGenerated {
		slog.Warn("no secret key configured, using a random one; issued tokens become invalid on restart")
	}

	// Upload directory
	if mkErr := os.MkdirAll(cfg.Server.UploadDir, 0o755); mkErr != nil {
		return fmt.Errorf("failed to create upload directory: %w", mkErr)
	}

	// Database (migrations run on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	deps, err := newDependencies(ctx, cfg, repository.New(db))
	if err != nil {
		return err
	}

	e := newEcho(cfg, deps)

	return startWithGracefulShutdown(ctx, e, cfg)
}

// dependencies are the services the routes are built from.
type dependencies struct {
	repo        *repository.Repository
	credentials *authsvc.Service
	tokens      *token.Service
	notifier    *email.Service // nil when SMTP is not configured
}

func newDependencies(ctx context.Context, cfg *config.Config, repo *repository.Repository) (*dependencies, error) {
	credentials := authsvc.NewService(repo)
	if err := credentials.EnsureDefaultAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	tokens, err := token.NewService(cfg.Auth.SecretKey, token.WithLifetime(cfg.Auth.TokenLifetime))
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	deps := &dependencies{
		repo:        repo,
		credentials: credentials,
		tokens:      tokens,
	}

	if cfg.SMTP.Enabled() {
		notifier, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create email service: %w", err)
		}
		deps.notifier = notifier
		slog.Info("new-client notifications enabled", "to", cfg.SMTP.NotifyTo)
	}

	return deps, nil
}

// newEcho builds the echo instance with middleware and routes.
func newEcho(cfg *config.Config, deps *dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	setupMiddleware(e, cfg)

	opts := []handlers.Option{
		handlers.WithUploadDir(cfg.Server.UploadDir),
		handlers.WithDefaultUsername(cfg.Auth.AdminUsername),
	}
	if deps.notifier != nil {
		opts = append(opts, handlers.WithNotifier(deps.notifier))
	}
	h := handlers.New(deps.repo, deps.credentials, deps.tokens, opts...)

	setupRoutes(e, cfg, h, deps.tokens)

	return e
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	// Setup TLS
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	// Channel for server errors
	errChan := make(chan error, 2)

	// HTTP redirect server for ACME mode
	var httpServer *http.Server

	switch tlsResult.Mode {
	case TLSModeOff:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		// HTTPS on :443
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// HTTP redirect server on :80
		httpServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("HTTP→HTTPS redirect active", "addr", ":80")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeManual:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("Server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	// Wait for interrupt signal, cancellation or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server", "reason", ctx.Err())
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown main server", "error", err)
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP redirect server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}
