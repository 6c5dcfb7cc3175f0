package usershandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/domain/users"
	"hrmconsole/internal/domain/workspace"
	"hrmconsole/internal/transport/http/middleware"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context) ([]users.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]users.User), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, in users.CreateInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockStore) Update(ctx context.Context, id string, in users.UpdateInput) (users.User, bool, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(users.User), args.Bool(1), args.Error(2)
}

func (m *MockStore) Get(ctx context.Context, id string) (users.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(users.User), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func fixtureUsers() []users.User {
	return []users.User{
		{ID: "1", Username: "admin", Email: "admin@hrm.local", IsActive: true, Role: users.RoleRef{ID: 1, Name: "Administrador"}},
		{ID: "2", Username: "mlopez", Email: "mlopez@hrm.local", IsActive: true, Role: users.RoleRef{ID: 2, Name: "Auditor"}},
		{ID: "3", Username: "jperez", Email: "jperez@hrm.local", IsActive: false, Role: users.RoleRef{ID: 2, Name: "Auditor"}},
	}
}

func newRouter(store users.Store) http.Handler {
	reg := workspace.NewRegistry(workspace.Deps{Users: store, UsersPageSize: 2})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithSession(req.Context(), auth.Session{ID: "s1", User: auth.User{ID: "1"}})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(reg).RegisterRoutes(r)
	return r
}

type pageEnvelope struct {
	Data struct {
		Items      []users.User `json:"items"`
		Total      int          `json:"total"`
		TotalPages int          `json:"totalPages"`
	} `json:"data"`
}

func TestListFiltersByRoleAndStatus(t *testing.T) {
	store := new(MockStore)
	store.On("List", mock.Anything).Return(fixtureUsers(), nil).Once()
	h := newRouter(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?roleId=2&status=active", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var env pageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, "mlopez", env.Data.Items[0].Username)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	env = pageEnvelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 3, env.Data.Total)
	assert.Equal(t, 2, env.Data.TotalPages)
	assert.Len(t, env.Data.Items, 1)

	store.AssertExpectations(t)
}

func TestCreateRejectsInvalidAccount(t *testing.T) {
	store := new(MockStore)
	rec := httptest.NewRecorder()
	body := `{"username":"","password":"secret","email":"not-an-email","roleId":1}`
	newRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "El nombre de usuario es requerido")
	assert.Contains(t, rec.Body.String(), "Email inválido")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReloads(t *testing.T) {
	store := new(MockStore)
	store.On("Create", mock.Anything, mock.MatchedBy(func(in users.CreateInput) bool { return in.Username == "nuevo" })).Return(nil)
	store.On("List", mock.Anything).Return(fixtureUsers(), nil).Once()

	rec := httptest.NewRecorder()
	body := `{"username":"nuevo","password":"secret","email":"nuevo@hrm.local","roleId":2}`
	newRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	store.AssertExpectations(t)
}

func TestUpdatePatchesWithoutBackendBody(t *testing.T) {
	store := new(MockStore)
	store.On("List", mock.Anything).Return(fixtureUsers(), nil).Once()
	store.On("Update", mock.Anything, "2", mock.Anything).Return(users.User{}, false, nil)

	rec := httptest.NewRecorder()
	body := `{"username":"mlopez","email":"m.lopez@hrm.local","isActive":false,"roleId":2}`
	newRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/users/2", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data users.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "m.lopez@hrm.local", env.Data.Email)
	assert.False(t, env.Data.IsActive)
	assert.Equal(t, "Auditor", env.Data.Role.Name)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	store := new(MockStore)
	store.On("List", mock.Anything).Return(fixtureUsers(), nil).Once()
	store.On("Delete", mock.Anything, "3").Return(nil)
	h := newRouter(store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/3", nil))
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "jperez")
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/3?confirm=true", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/3?confirm=true", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
