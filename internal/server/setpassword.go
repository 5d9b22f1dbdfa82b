// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"codeberg.org/medportfolio/medportfolio/internal/database"
	"codeberg.org/medportfolio/medportfolio/internal/repository"
	authsvc "codeberg.org/medportfolio/medportfolio/internal/services/auth"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var errPasswordMismatch = errors.New("passwords do not match")

// SetPassword is the action of the set-password command. It resets the
// password of an existing admin, prompting for it when --password is empty.
func SetPassword(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	if password == "" {
		var err error
		password, err = promptPassword(out, int(os.Stdin.Fd()))
		if err != nil {
			return err
		}
	}

	db, err := database.Open(cmd.String("database-dsn"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	svc := authsvc.NewService(repository.New(db))
	if err := svc.SetPassword(ctx, username, password); err != nil {
		return fmt.Errorf("failed to set password for %q: %w", username, err)
	}

	_, _ = fmt.Fprintf(out, "Password updated for %s\n", username)
	return nil
}

// promptPassword reads a password twice from the terminal without echo.
func promptPassword(out io.Writer, fd int) (string, error) {
	if !term.IsTerminal(fd) {
		return "", errors.New("no --password given and stdin is not a terminal")
	}

	_, _ = fmt.Fprint(out, "New password: ")
	first, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	_, _ = fmt.Fprint(out, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	return string(first), nil
}
