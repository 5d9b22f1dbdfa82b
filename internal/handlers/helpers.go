// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

const msgNoData = "No data provided"

var errNoData = errors.New("no data provided")

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// jsonError writes {"error": message} with the given status code.
func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// decodeBody decodes a non-empty JSON object from the request body into dst,
// which must point to a struct with json tags. The body is parsed once;
// only the values of known fields are decoded again.
// An empty, malformed or empty-object body yields errNoData.
func decodeBody(c echo.Context, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
		// The body limit middleware reports overflow as an HTTP error.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return errNoData
	}
	if len(fields) == 0 {
		return errNoData
	}
	if err := assignFields(fields, dst); err != nil {
		return errNoData
	}
	return nil
}

// assignFields decodes each field of the struct dst points to from the
// entry named by its json tag.
func assignFields(fields map[string]json.RawMessage, dst any) error {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		raw, ok := fields[name]
		if !ok || name == "" || name == "-" {
			continue
		}
		if err := json.Unmarshal(raw, v.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

// bindError turns a decodeBody error into a response.
func bindError(c echo.Context, err error) error {
	if errors.Is(err, errNoData) {
		return jsonError(c, http.StatusBadRequest, msgNoData)
	}
	return err
}
