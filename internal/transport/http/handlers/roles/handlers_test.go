package roleshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roleadmin"
	"hrmconsole/internal/domain/roles"
	"hrmconsole/internal/domain/workspace"
	"hrmconsole/internal/platform/backend"
	"hrmconsole/internal/transport/http/middleware"
)

type roleBackend struct {
	mu      sync.Mutex
	list    []roles.Role
	created []roles.WritePayload
}

func (b *roleBackend) List(context.Context) ([]roles.Role, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]roles.Role(nil), b.list...), nil
}

func (b *roleBackend) Create(_ context.Context, p roles.WritePayload) (roles.Role, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, p)
	role := roles.Role{ID: "9", Name: p.Name, Description: p.Description, IsActive: p.IsActive, Permissions: p.Permissions}
	b.list = append(b.list, role)
	return role, nil
}

func (b *roleBackend) Update(_ context.Context, id string, p roles.WritePayload) (roles.Role, error) {
	return roles.Role{ID: id, Name: p.Name}, nil
}

func (b *roleBackend) Delete(context.Context, string) error { return nil }

func (b *roleBackend) Permissions(_ context.Context, id string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, role := range b.list {
		if role.ID == id {
			return append([]string(nil), role.Permissions...), nil
		}
	}
	return nil, &backend.Error{Resource: "roles", Method: http.MethodGet, Status: http.StatusNotFound}
}

func (b *roleBackend) UpdatePermissions(_ context.Context, id string, codes []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.list {
		if b.list[i].ID == id {
			b.list[i].Permissions = append([]string(nil), codes...)
			return nil
		}
	}
	return &backend.Error{Resource: "roles", Method: http.MethodPut, Status: http.StatusNotFound}
}

type catalog []permissions.Permission

func (c catalog) List(context.Context) ([]permissions.Permission, error) { return c, nil }

func newServer(t *testing.T) (http.Handler, *roleBackend) {
	t.Helper()
	backend := &roleBackend{list: []roles.Role{
		{ID: "1", Name: "Administrador", Description: "Acceso total", IsActive: true, Permissions: []string{"USERS_READ"}, UserCount: 2},
		{ID: "2", Name: "Auditor", Description: "Solo lectura", IsActive: false},
	}}
	perms := catalog{
		{ID: "1", Code: "USERS_READ", Name: "Ver usuarios", Category: "Usuarios", IsActive: true},
		{ID: "2", Code: "USERS_WRITE", Name: "Editar usuarios", Category: "Usuarios", IsActive: true},
		{ID: "3", Code: "REPORTS", Name: "Reportes", IsActive: true},
	}
	reg := workspace.NewRegistry(workspace.Deps{Roles: backend, Permissions: perms})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess := auth.Session{ID: "s1", User: auth.User{ID: "1", Username: "admin"}}
			next.ServeHTTP(w, req.WithContext(middleware.WithSession(req.Context(), sess)))
		})
	})
	NewHandler(reg, backend).RegisterRoutes(r)
	return r, backend
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	env := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestListFiltersAndPaginates(t *testing.T) {
	h, _ := newServer(t)

	rec, env := do(t, h, http.MethodGet, "/roles?status=active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := env["data"].(map[string]any)
	assert.Equal(t, float64(1), page["total"])

	rec, _ = do(t, h, http.MethodGet, "/roles?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoleJourney(t *testing.T) {
	h, backend := newServer(t)

	rec, env := do(t, h, http.MethodPost, "/roles/editor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "create", env["data"].(map[string]any)["mode"])

	rec, env = do(t, h, http.MethodPost, "/roles/editor/submit", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := env["error"].(map[string]any)["details"].(map[string]any)["fields"].([]any)
	assert.Len(t, fields, 3)

	rec, _ = do(t, h, http.MethodPatch, "/roles/editor", `{"name":"Soporte","description":"Atiende incidencias"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, h, http.MethodPost, "/roles/editor/categories/Usuarios/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), env["data"].(map[string]any)["selected"])

	rec, env = do(t, h, http.MethodPost, "/roles/editor/categories/Sin%20categor%C3%ADa/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), env["data"].(map[string]any)["selected"])

	rec, _ = do(t, h, http.MethodPost, "/roles/editor/permissions/REPORTS/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, h, http.MethodPost, "/roles/editor/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Soporte", env["data"].(map[string]any)["name"])
	require.Len(t, backend.created, 1)
	assert.Equal(t, []string{"USERS_READ", "USERS_WRITE"}, backend.created[0].Permissions)

	rec, _ = do(t, h, http.MethodGet, "/roles/editor", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteRules(t *testing.T) {
	h, _ := newServer(t)

	rec, env := do(t, h, http.MethodDelete, "/roles/1?confirm=true", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "role_in_use", env["error"].(map[string]any)["code"])

	rec, env = do(t, h, http.MethodDelete, "/roles/2", "")
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	prompt := env["error"].(map[string]any)["details"].(map[string]any)["prompt"]
	assert.Equal(t, roleadmin.DeletePrompt(roles.Role{Name: "Auditor"}), prompt)

	rec, _ = do(t, h, http.MethodDelete, "/roles/2?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/roles/2?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelWithoutEditor(t *testing.T) {
	h, _ := newServer(t)
	rec, env := do(t, h, http.MethodDelete, "/roles/editor", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_editing", env["error"].(map[string]any)["code"])
}

func TestReplaceAssignedPermissions(t *testing.T) {
	h, _ := newServer(t)

	rec, env := do(t, h, http.MethodGet, "/roles/1/permissions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"USERS_READ"}, env["data"])

	rec, _ = do(t, h, http.MethodPut, "/roles/1/permissions", `{"permissions":["USERS_READ","REPORTS"]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, h, http.MethodPost, "/roles/1/editor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := env["data"].(map[string]any)
	assert.ElementsMatch(t, []any{"USERS_READ", "REPORTS"}, view["permissions"])

	rec, _ = do(t, h, http.MethodGet, "/roles/99/permissions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
