// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"

	"codeberg.org/medportfolio/medportfolio/internal/config"
	"codeberg.org/medportfolio/medportfolio/internal/server"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Run the medical portfolio web application",
		Version: Version,
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:   "set-password",
				Usage:  "Reset the password of an admin account",
				Flags:  config.SetPasswordFlags(),
				Action: server.SetPassword,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
