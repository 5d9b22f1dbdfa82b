// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error that reaches echo as {"error": message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if he.Internal != nil {
			slog.Debug("http error", "status", status, "internal", he.Internal)
		}
		switch m := he.Message.(type) {
		case string:
			message = m
		case error:
			message = m.Error()
		case nil:
			message = http.StatusText(status)
		default:
			message = fmt.Sprint(m)
		}
	} else {
		slog.Error("unhandled error",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, map[string]string{"error": message})
	}
	if writeErr != nil {
		slog.Error("failed to write error response", "error", writeErr)
	}
}
