// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyContext(body io.Reader) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestDecodeBody(t *testing.T) {
	var req CreateClientRequest
	err := decodeBody(bodyContext(strings.NewReader(
		`{"name":" Jane ","email":"jane@x.com","message":"Hi","unknown":[1,2]}`)), &req)

	require.NoError(t, err)
	assert.Equal(t, CreateClientRequest{Name: " Jane ", Email: "jane@x.com", Message: "Hi"}, req)
}

func TestDecodeBody_PointerFields(t *testing.T) {
	var req UpdateClientRequest
	err := decodeBody(bodyContext(strings.NewReader(`{"read_by_admin":true,"admin_notes":null}`)), &req)

	require.NoError(t, err)
	require.NotNil(t, req.ReadByAdmin)
	assert.True(t, *req.ReadByAdmin)
	assert.Nil(t, req.AdminNotes)
	assert.Nil(t, req.Status)
}

func TestDecodeBody_UnknownFieldsOnly(t *testing.T) {
	var req LoginRequest
	err := decodeBody(bodyContext(strings.NewReader(`{"user":"admin"}`)), &req)

	require.NoError(t, err)
	assert.Equal(t, LoginRequest{}, req)
}

func TestDecodeBody_NoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"empty object", "{}"},
		{"null", "null"},
		{"array", `[{"username":"admin"}]`},
		{"malformed", `{"username":`},
		{"wrong type", `{"username":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req LoginRequest
			err := decodeBody(bodyContext(strings.NewReader(tt.body)), &req)

			assert.ErrorIs(t, err, errNoData)
		})
	}
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestDecodeBody_PassesHTTPErrors(t *testing.T) {
	var req LoginRequest
	err := decodeBody(bodyContext(failingReader{err: echo.ErrStatusRequestEntityTooLarge}), &req)

	assert.ErrorIs(t, err, echo.ErrStatusRequestEntityTooLarge)
}
