package roles

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/platform/backend"
)

func TestFromWireKeepsPermissionsVerbatim(t *testing.T) {
	r := FromWire(Wire{
		ID:               4,
		Nombre:           "Supervisor",
		Descripcion:      "Supervisa turnos de tienda",
		Activo:           true,
		FechaCreacion:    "2024-01-02T08:00:00",
		Permisos:         []string{"U_READ", "LEGACY_OFF", "U_READ"},
		CantidadUsuarios: 3,
	})

	assert.Equal(t, "4", r.ID)
	assert.Equal(t, []string{"U_READ", "LEGACY_OFF", "U_READ"}, r.Permissions)
	assert.Equal(t, 3, r.UserCount)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
	assert.False(t, r.IsNew())
}

func TestFromWireWithoutUserCount(t *testing.T) {
	r := FromWire(Wire{Nombre: "Nuevo"})
	assert.Equal(t, 0, r.UserCount)
	assert.True(t, r.IsNew())
	assert.NotNil(t, r.Permissions)
}

func TestToWireNeverSendsNullPermissions(t *testing.T) {
	raw, err := json.Marshal(ToWire(WritePayload{Name: "Auditor"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"nombre":"Auditor","descripcion":"","activo":false,"permisos":[]}`, string(raw))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Role{
		{Name: "Admin", IsActive: true, UserCount: 2},
		{Name: "Viewer", IsActive: false, UserCount: 5},
		{Name: "Clerk", IsActive: true},
	})
	assert.Equal(t, Summary{TotalRoles: 3, ActiveRoles: 2, TotalUsers: 7}, s)
}

func TestAccessorUpdatePermissions(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	acc := NewAccessor(backend.New(srv.URL, 0, nil))
	require.NoError(t, acc.UpdatePermissions(context.Background(), "9", []string{"B_READ"}))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/roles/9/permisos", gotPath)
	assert.Equal(t, []string{"B_READ"}, gotBody["permisos"])
}

func TestAccessorCreateDecodesEcho(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in WriteWire
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(Wire{ID: 12, Nombre: in.Nombre, Descripcion: in.Descripcion, Activo: in.Activo, Permisos: in.Permisos})
	}))
	defer srv.Close()

	acc := NewAccessor(backend.New(srv.URL, 0, nil))
	created, err := acc.Create(context.Background(), WritePayload{Name: "Cajero", Description: "Opera caja registradora", IsActive: true, Permissions: []string{"POS"}})
	require.NoError(t, err)
	assert.Equal(t, "12", created.ID)
	assert.Equal(t, []string{"POS"}, created.Permissions)
}

func TestAccessorSurfacesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"mensaje":"rol duplicado"}`))
	}))
	defer srv.Close()

	acc := NewAccessor(backend.New(srv.URL, 0, nil))
	_, err := acc.Update(context.Background(), "1", WritePayload{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, backend.StatusOf(err))
	assert.Contains(t, err.Error(), "rol duplicado")
}
