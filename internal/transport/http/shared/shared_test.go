package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/domain/authz"
	"hrmconsole/internal/domain/roleadmin"
	"hrmconsole/internal/domain/users"
	"hrmconsole/internal/platform/backend"
	"hrmconsole/internal/platform/validation"
	"hrmconsole/internal/transport/http/api"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "input", err: &validation.Error{Issues: []validation.Issue{{Field: "email", Message: "Email inválido"}}}, status: http.StatusBadRequest, code: "validation_error"},
		{name: "draft", err: &roleadmin.ValidationError{Fields: []authz.FieldError{{Field: authz.FieldName, Message: "x"}}}, status: http.StatusBadRequest, code: "validation_error"},
		{name: "role in use", err: &roleadmin.RoleInUseError{Name: "Admin", UserCount: 2}, status: http.StatusConflict, code: "role_in_use"},
		{name: "not found", err: fmt.Errorf("wrap: %w", users.ErrNotFound), status: http.StatusNotFound, code: "not_found"},
		{name: "in flight", err: roleadmin.ErrSubmitInFlight, status: http.StatusConflict, code: "submit_in_flight"},
		{name: "backend 409", err: &backend.Error{Status: http.StatusConflict, Message: "duplicado"}, status: http.StatusConflict, code: "backend_error"},
		{name: "backend 500", err: &backend.Error{Status: http.StatusInternalServerError, Message: "boom"}, status: http.StatusBadGateway, code: "backend_error"},
		{name: "unreachable", err: fmt.Errorf("%w: dial", backend.ErrUnavailable), status: http.StatusBadGateway, code: "backend_unavailable"},
		{name: "unknown", err: fmt.Errorf("surprise"), status: http.StatusInternalServerError, code: "internal_error"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err, nil)
			assert.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestConfirmationEchoesPrompt(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/roles/3", nil)
	confirm := ConfirmationFrom(req)
	assert.False(t, confirm.Confirm(context.Background(), "¿Seguro?"))

	rec := httptest.NewRecorder()
	WriteError(rec, req, roleadmin.ErrNotConfirmed, confirm)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "¿Seguro?")

	confirmed := ConfirmationFrom(httptest.NewRequest(http.MethodDelete, "/api/v1/roles/3?confirm=true", nil))
	assert.True(t, confirmed.Confirm(context.Background(), "¿Seguro?"))
}

func TestParsePage(t *testing.T) {
	v := NewValidator()
	assert.Equal(t, 1, ParsePage(httptest.NewRequest(http.MethodGet, "/", nil), v))
	assert.Equal(t, 3, ParsePage(httptest.NewRequest(http.MethodGet, "/?page=3", nil), v))
	assert.False(t, v.HasIssues())

	assert.Equal(t, 1, ParsePage(httptest.NewRequest(http.MethodGet, "/?page=-2", nil), v))
	assert.True(t, v.HasIssues())

	rec := httptest.NewRecorder()
	assert.True(t, v.Reject(rec, "req-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseDateIn(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got, err := ParseDateIn("2024-01-09", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())

	zero, err := ParseDateIn("", loc)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseDateIn("09/01/2024", loc)
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	rec := httptest.NewRecorder()
	ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ventas"}`)), &dst)
	assert.True(t, ok)
	assert.Equal(t, "Ventas", dst.Name)

	rec = httptest.NewRecorder()
	ok = DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nombre":"Ventas"}`)), &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:5555"
	assert.Equal(t, "192.0.2.9", ClientIP(req))
	req.Header.Set("X-Forwarded-For", "203.0.113.4, 10.0.0.1")
	assert.Equal(t, "203.0.113.4", ClientIP(req))
}
