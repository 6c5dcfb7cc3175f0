package roleadmin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hrmconsole/internal/domain/authz"
	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roles"
	"hrmconsole/internal/platform/listing"
)

// --- Mocks ---

type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) List(ctx context.Context) ([]roles.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roles.Role), args.Error(1)
}

func (m *MockRoleStore) Create(ctx context.Context, payload roles.WritePayload) (roles.Role, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(roles.Role), args.Error(1)
}

func (m *MockRoleStore) Update(ctx context.Context, id string, payload roles.WritePayload) (roles.Role, error) {
	args := m.Called(ctx, id, payload)
	return args.Get(0).(roles.Role), args.Error(1)
}

func (m *MockRoleStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPermissionStore struct {
	mock.Mock
}

func (m *MockPermissionStore) List(ctx context.Context) ([]permissions.Permission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]permissions.Permission), args.Error(1)
}

type recordedToast struct {
	Kind    notifications.Kind
	Message string
}

type recordingNotifier struct {
	mu     sync.Mutex
	toasts []recordedToast
}

func (n *recordingNotifier) Notify(_ context.Context, kind notifications.Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, recordedToast{kind, message})
}

func (n *recordingNotifier) all() []recordedToast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedToast(nil), n.toasts...)
}

// --- Fixtures ---

func fixtureRoles() []roles.Role {
	return []roles.Role{
		{ID: "1", Name: "Administrador", Description: "Acceso completo al sistema", IsActive: true, Permissions: []string{"U_READ", "U_WRITE", "B_READ"}, UserCount: 3},
		{ID: "2", Name: "Cajero", Description: "Opera la caja registradora", IsActive: true, Permissions: []string{"B_READ"}},
		{ID: "3", Name: "Auditor", Description: "Revisa facturas archivadas", IsActive: false, Permissions: []string{"LEGACY_OFF"}},
	}
}

func fixtureCatalog() []permissions.Permission {
	return []permissions.Permission{
		{Code: "U_READ", Name: "Ver usuarios", Category: "Users", IsActive: true},
		{Code: "U_WRITE", Name: "Editar usuarios", Category: "Users", IsActive: true},
		{Code: "B_READ", Name: "Ver facturas", Category: "Billing", IsActive: true},
		{Code: "LEGACY_OFF", Name: "Legado", Category: "Billing", IsActive: false},
	}
}

func newLoadedFlow(t *testing.T) (*Flow, *MockRoleStore, *MockPermissionStore, *recordingNotifier) {
	t.Helper()
	rs := new(MockRoleStore)
	ps := new(MockPermissionStore)
	n := &recordingNotifier{}
	rs.On("List", mock.Anything).Return(fixtureRoles(), nil).Once()
	ps.On("List", mock.Anything).Return(fixtureCatalog(), nil).Once()

	f := New(rs, ps, n, 0)
	require.NoError(t, f.LoadCatalogs(context.Background()))
	return f, rs, ps, n
}

var confirmYes = ConfirmFunc(func(context.Context, string) bool { return true })

// --- Tests ---

func TestLoadCatalogsKeepsInactiveAssignments(t *testing.T) {
	f, _, _, n := newLoadedFlow(t)
	assert.Len(t, f.Roles(), 3)
	assert.Len(t, f.Catalog(), 4)
	assert.Equal(t, []string{"LEGACY_OFF"}, f.Roles()[2].Permissions)
	assert.Empty(t, n.all())
}

func TestLoadCatalogsFailureLeavesStateUntouched(t *testing.T) {
	f, rs, ps, n := newLoadedFlow(t)
	rs.On("List", mock.Anything).Return(nil, errors.New("boom")).Once()
	ps.On("List", mock.Anything).Return([]permissions.Permission{}, nil).Maybe()

	err := f.LoadCatalogs(context.Background())
	require.Error(t, err)

	assert.Len(t, f.Roles(), 3)
	assert.Len(t, f.Catalog(), 4)
	toasts := n.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, notifications.KindError, toasts[0].Kind)
	assert.Equal(t, notifications.LoadFailedMessage, toasts[0].Message)
}

func TestQuery(t *testing.T) {
	list := fixtureRoles()

	assert.Len(t, Search(list, "CAJA"), 1, "matches description case-insensitively")
	assert.Len(t, Search(list, ""), 3)
	assert.Len(t, FilterByStatus(list, listing.StatusInactive), 1)
	assert.Len(t, FilterByStatus(list, listing.StatusAll), 3)

	page := Apply(list, Query{Status: listing.StatusActive, Page: 1}, 1)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Administrador", page.Items[0].Name)

	assert.Empty(t, Paginate(list, 9, DefaultPageSize), "out of range is not clamped")
}

func TestDeleteRefusesRoleWithUsers(t *testing.T) {
	f, rs, _, n := newLoadedFlow(t)

	err := f.Delete(context.Background(), "1", confirmYes)
	require.ErrorIs(t, err, ErrRoleInUse)
	var inUse *RoleInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, "Administrador", inUse.Name)
	assert.Equal(t, 3, inUse.UserCount)

	rs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	toasts := n.all()
	require.Len(t, toasts, 1)
	assert.Equal(t, `Cannot delete role "Administrador" because it has 3 assigned users.`, toasts[0].Message)
	assert.Len(t, f.Roles(), 3)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f, rs, _, _ := newLoadedFlow(t)

	var prompt string
	declined := ConfirmFunc(func(_ context.Context, p string) bool { prompt = p; return false })
	require.ErrorIs(t, f.Delete(context.Background(), "2", declined), ErrNotConfirmed)
	assert.Equal(t, `¿Estás seguro de que quieres eliminar el rol "Cajero"?`, prompt)
	rs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	rs.On("Delete", mock.Anything, "2").Return(nil).Once()
	require.NoError(t, f.Delete(context.Background(), "2", confirmYes))
	assert.Len(t, f.Roles(), 2)
	rs.AssertExpectations(t)
}

func TestDeleteBackendFailureKeepsRole(t *testing.T) {
	f, rs, _, n := newLoadedFlow(t)
	rs.On("Delete", mock.Anything, "2").Return(errors.New("503")).Once()

	require.Error(t, f.Delete(context.Background(), "2", confirmYes))
	assert.Len(t, f.Roles(), 3)
	assert.Equal(t, notifications.KindError, n.all()[0].Kind)
	require.ErrorIs(t, f.Delete(context.Background(), "missing", confirmYes), ErrRoleNotFound)
}

func TestSubmitInvalidDraftKeepsEditorOpen(t *testing.T) {
	f, rs, _, _ := newLoadedFlow(t)
	_, err := f.OpenCreate()
	require.NoError(t, err)

	_, err = f.Submit(context.Background())
	require.ErrorIs(t, err, ErrInvalidDraft)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Equal(t, StateEditing, f.State())

	view, err := f.Editor()
	require.NoError(t, err)
	assert.Len(t, view.Errors, 3)
	rs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitCreateReloadsRoles(t *testing.T) {
	f, rs, _, n := newLoadedFlow(t)

	name, desc := "  Supervisor ", "Supervisa turnos de tienda"
	_, err := f.OpenCreate()
	require.NoError(t, err)
	_, err = f.UpdateFields(FieldsUpdate{Name: &name, Description: &desc})
	require.NoError(t, err)
	view, err := f.ToggleCategory("Users")
	require.NoError(t, err)
	assert.Equal(t, []string{"U_READ", "U_WRITE"}, view.Permissions)

	expected := roles.WritePayload{Name: "Supervisor", Description: desc, IsActive: true, Permissions: []string{"U_READ", "U_WRITE"}}
	rs.On("Create", mock.Anything, expected).Return(roles.Role{Name: "Supervisor"}, nil).Once()
	reloaded := append(fixtureRoles(), roles.Role{ID: "9", Name: "Supervisor", Description: desc, IsActive: true, Permissions: expected.Permissions})
	rs.On("List", mock.Anything).Return(reloaded, nil).Once()

	saved, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9", saved.ID)
	assert.Equal(t, StateClosed, f.State())
	assert.Len(t, f.Roles(), 4)
	assert.Equal(t, `Role "Supervisor" created successfully!`, n.all()[0].Message)

	_, err = f.Editor()
	assert.ErrorIs(t, err, ErrNotEditing)
	rs.AssertExpectations(t)
}

func TestSubmitUpdatePatchesLocally(t *testing.T) {
	f, rs, _, _ := newLoadedFlow(t)
	stamp := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	f.SetClock(func() time.Time { return stamp })

	_, err := f.OpenEdit("3")
	require.NoError(t, err)
	_, err = f.TogglePermission("B_READ")
	require.NoError(t, err)

	expected := roles.WritePayload{Name: "Auditor", Description: "Revisa facturas archivadas", Permissions: []string{"B_READ", "LEGACY_OFF"}}
	rs.On("Update", mock.Anything, "3", expected).Return(roles.Role{}, nil).Once()

	saved, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stamp, saved.UpdatedAt)

	got := f.Roles()[2]
	assert.Equal(t, []string{"B_READ", "LEGACY_OFF"}, got.Permissions, "inactive assignment passes through")
	assert.Equal(t, stamp, got.UpdatedAt)
	rs.AssertNumberOfCalls(t, "List", 1)
}

func TestSubmitFailureRetainsDraft(t *testing.T) {
	f, rs, _, n := newLoadedFlow(t)
	_, err := f.OpenEdit("2")
	require.NoError(t, err)
	rs.On("Update", mock.Anything, "2", mock.Anything).Return(roles.Role{}, errors.New("down")).Once()

	_, err = f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateEditing, f.State())
	view, err := f.Editor()
	require.NoError(t, err)
	assert.Equal(t, "Cajero", view.Name)
	assert.Equal(t, `Error al actualizar el rol "Cajero". Por favor, intenta de nuevo.`, n.all()[0].Message)
}

func TestSecondSubmitWhileInFlightIsRejected(t *testing.T) {
	f, rs, _, _ := newLoadedFlow(t)
	_, err := f.OpenEdit("2")
	require.NoError(t, err)

	entered := make(chan struct{})
	releaseUpdate := make(chan struct{})
	rs.On("Update", mock.Anything, "2", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-releaseUpdate
		}).
		Return(roles.Role{}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-entered

	assert.Equal(t, StateSubmitting, f.State())
	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	_, err = f.SubmitUpdate(context.Background(), "2", roles.WritePayload{})
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.ErrorIs(t, f.Cancel(), ErrSubmitInFlight)
	_, err = f.TogglePermission("U_READ")
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Len(t, f.Query(Query{Search: "caj", Page: 1}).Items, 1, "reads stay available")

	close(releaseUpdate)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, f.State())
	rs.AssertNumberOfCalls(t, "Update", 1)
}

func TestCancelDiscardsDraft(t *testing.T) {
	f, _, _, _ := newLoadedFlow(t)
	assert.ErrorIs(t, f.Cancel(), ErrNotEditing)

	_, err := f.OpenEdit("1")
	require.NoError(t, err)
	_, err = f.ClearAll()
	require.NoError(t, err)
	require.NoError(t, f.Cancel())

	view, err := f.OpenEdit("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"B_READ", "U_READ", "U_WRITE"}, view.Permissions, "reopening reseeds from the role")
	_, err = f.OpenEdit("404")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestEditorViewCategories(t *testing.T) {
	f, _, _, _ := newLoadedFlow(t)
	view, err := f.OpenEdit("2")
	require.NoError(t, err)

	assert.Equal(t, "edit", view.Mode)
	assert.Equal(t, 3, view.Available)
	require.Len(t, view.Categories, 2)
	assert.Equal(t, authz.SelectionNone, view.Categories[0].State)
	assert.Equal(t, authz.SelectionAll, view.Categories[1].State)

	view, err = f.SelectAll()
	require.NoError(t, err)
	assert.Equal(t, 3, view.Selected)
}

func TestSummary(t *testing.T) {
	f, _, _, _ := newLoadedFlow(t)
	s := f.Summary()
	assert.Equal(t, 3, s.TotalRoles)
	assert.Equal(t, 2, s.ActiveRoles)
	assert.Equal(t, 3, s.TotalUsers)
	assert.Equal(t, []string{"Users", "Billing"}, s.Categories)
	assert.Equal(t, "Ver facturas", s.PermissionNames["B_READ"])
	assert.Equal(t, "Legado", s.PermissionNames["LEGACY_OFF"])
}

func TestIsBusinessRule(t *testing.T) {
	assert.True(t, IsBusinessRule(&RoleInUseError{Name: "x", UserCount: 1}))
	assert.True(t, IsBusinessRule(ErrNotConfirmed))
	assert.False(t, IsBusinessRule(errors.New("backend")))
}
