// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// StripTrailingSlash redirects page requests with a trailing slash to the
// canonical URL without. API requests are rewritten in place so POST bodies
// survive.
func StripTrailingSlash() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if path == "/" || !strings.HasSuffix(path, "/") {
				return next(c)
			}

			// Leading slashes and backslashes collapse so "//host/" never
			// becomes a protocol-relative Location.
			trimmed := "/" + strings.TrimLeft(strings.TrimRight(path, "/"), `/\`)

			if strings.HasPrefix(path, "/api/") || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
				req.URL.Path = trimmed
				req.URL.RawPath = ""
				return next(c)
			}

			target := trimmed
			if req.URL.RawQuery != "" {
				target += "?" + req.URL.RawQuery
			}
			return c.Redirect(http.StatusMovedPermanently, target)
		}
	}
}
