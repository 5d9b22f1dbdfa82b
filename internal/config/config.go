// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// SecretKeyLength is the number of random bytes of a generated secret.
const SecretKeyLength = 32

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	TLS      TLSConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
}

type TLSConfig struct {
	Mode     string // off, manual, acme
	CertDir  string // Directory for the ACME certificate cache
	Email    string // ACME email for Let's Encrypt
	CertFile string // Path to certificate file (manual mode)
	KeyFile  string // Path to private key file (manual mode)
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
	StaticDir   string
	UploadDir   string
	CORSOrigins []string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical
	SecretKey       string
	SecretGenerated bool // true when SecretKey was generated at startup
	TokenLifetime   time.Duration
	AdminUsername   string
	AdminPassword   string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
	NotifyTo string // Recipient of new-client notifications
}

// Enabled reports whether notification mails can be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && c.NotifyTo != ""
}

func NewFromCLI(cmd *cli.Command) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
			StaticDir:   cmd.String("static-dir"),
			UploadDir:   cmd.String("upload-dir"),
			CORSOrigins: cmd.StringSlice("cors-origins"),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		TLS: TLSConfig{
			Mode:     cmd.String("tls-mode"),
			CertDir:  cmd.String("tls-cert-dir"),
			Email:    cmd.String("tls-email"),
			CertFile: cmd.String("tls-cert-file"),
			KeyFile:  cmd.String("tls-key-file"),
		},
		Auth: AuthConfig{
			SecretKey:     cmd.String("secret-key"),
			TokenLifetime: cmd.Duration("token-lifetime"),
			AdminUsername: cmd.String("admin-username"),
			AdminPassword: cmd.String("admin-password"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
			NotifyTo: cmd.String("smtp-notify-to"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	if err := applySecretDefault(&cfg.Auth); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applySecretDefault generates a random signing secret when none is set.
// Tokens signed with a generated secret do not survive a restart.
func applySecretDefault(auth *AuthConfig) error {
	if auth.SecretKey != "" {
		return nil
	}
	key := securecookie.GenerateRandomKey(SecretKeyLength)
	if key == nil {
		return errors.New("failed to generate secret key")
	}
	auth.SecretKey = hex.EncodeToString(key)
	auth.SecretGenerated = true
	return nil
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port
	mode := strings.ToLower(cfg.TLS.Mode)

	scheme := "http"
	if shouldUseTLS(mode) {
		scheme = "https"
	}

	// ACME mode always uses port 443
	if mode == "acme" {
		return fmt.Sprintf("https://%s", host)
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

func shouldUseTLS(mode string) bool {
	switch mode {
	case "acme", "manual":
		return true
	default:
		return false
	}
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   16,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "static-dir",
			Value:   "./static",
			Usage:   "Directory served under /static",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STATIC_DIR"), toml.TOML("server.static_dir", configFile)),
		},
		&cli.StringFlag{
			Name:    "upload-dir",
			Value:   "./static/uploads",
			Usage:   "Directory for uploaded files",
			Sources: cli.NewValueSourceChain(cli.EnvVar("UPLOAD_FOLDER"), toml.TOML("server.upload_dir", configFile)),
		},
		&cli.StringSliceFlag{
			Name:    "cors-origins",
			Value:   []string{"*"},
			Usage:   "Allowed CORS origins",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CORS_ORIGINS"), toml.TOML("server.cors_origins", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		databaseFlag(),
		&cli.StringFlag{
			Name:    "tls-mode",
			Value:   "off",
			Usage:   "TLS mode (off, manual, acme)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_MODE"), toml.TOML("tls.mode", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-dir",
			Value:   "./data/certs",
			Usage:   "Directory for the ACME certificate cache",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_DIR"), toml.TOML("tls.cert_dir", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-email",
			Usage:   "Email for ACME/Let's Encrypt registration",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_EMAIL"), toml.TOML("tls.email", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-file",
			Usage:   "Path to TLS certificate file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_FILE"), toml.TOML("tls.cert_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-key-file",
			Usage:   "Path to TLS private key file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_KEY_FILE"), toml.TOML("tls.key_file", configFile)),
		},
		// Auth flags
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "Token signing secret (random per start if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SECRET_KEY"), toml.TOML("auth.secret_key", configFile)),
		},
		&cli.DurationFlag{
			Name:    "token-lifetime",
			Value:   24 * time.Hour,
			Usage:   "Lifetime of admin access tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_LIFETIME"), toml.TOML("auth.token_lifetime", configFile)),
		},
	}

	flags = append(flags, adminFlags()...)
	return append(flags, smtpFlags()...)
}

// SetPasswordFlags are the flags of the set-password command.
func SetPasswordFlags() []cli.Flag {
	return []cli.Flag{
		databaseFlag(),
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "Admin username",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "New password (prompted if empty)",
		},
	}
}

func databaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "database-dsn",
		Value:   "./data/medical_portfolio.db",
		Usage:   "Database DSN",
		Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
	}
}

func adminFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "admin-username",
			Value:   "admin",
			Usage:   "Username of the admin seeded on first start",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_USERNAME"), toml.TOML("auth.admin_username", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Value:   "admin9048",
			Usage:   "Password of the admin seeded on first start",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_PASSWORD"), toml.TOML("auth.admin_password", configFile)),
		},
	}
}

func smtpFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host (notifications disabled if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address of notification mails",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Medical Portfolio",
			Usage:   "Sender name of notification mails",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-notify-to",
			Usage:   "Recipient of new-client notifications",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_NOTIFY_TO"), toml.TOML("smtp.notify_to", configFile)),
		},
	}
}
