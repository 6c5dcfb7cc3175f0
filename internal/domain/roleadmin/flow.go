// Package roleadmin sequences role administration: catalog loading, list queries, the
// edit lifecycle around the authz editor, and persistence through the backend.
package roleadmin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"hrmconsole/internal/domain/authz"
	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roles"
	"hrmconsole/internal/platform/listing"
)

type RoleStore interface {
	List(ctx context.Context) ([]roles.Role, error)
	Create(ctx context.Context, payload roles.WritePayload) (roles.Role, error)
	Update(ctx context.Context, id string, payload roles.WritePayload) (roles.Role, error)
	Delete(ctx context.Context, id string) error
}

type PermissionStore interface {
	List(ctx context.Context) ([]permissions.Permission, error)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

type State string

const (
	StateClosed     State = "closed"
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
)

// Flow owns one console session's role list, permission catalog and open editor.
// The mutex is never held across a backend call.
type Flow struct {
	roles    RoleStore
	perms    PermissionStore
	notifier notifications.Notifier
	now      func() time.Time
	pageSize int

	mu       sync.Mutex
	list     []roles.Role
	catalog  []permissions.Permission
	loaded   bool
	editor   *authz.Editor
	state    State
	inFlight bool
}

func New(roleStore RoleStore, permStore PermissionStore, notifier notifications.Notifier, pageSize int) *Flow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Flow{
		roles:    roleStore,
		perms:    permStore,
		notifier: notifier,
		now:      time.Now,
		pageSize: pageSize,
		state:    StateClosed,
	}
}

// SetClock overrides the time source used to stamp updates.
func (f *Flow) SetClock(now func() time.Time) {
	f.now = now
}

// LoadCatalogs fetches roles and permissions concurrently. Either failure is
// reported once and leaves the previous catalogs in place.
func (f *Flow) LoadCatalogs(ctx context.Context) error {
	var (
		roleList []roles.Role
		catalog  []permissions.Permission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roleList, err = f.roles.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = f.perms.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		f.notify(ctx, notifications.KindError, notifications.LoadFailedMessage)
		return fmt.Errorf("load role catalogs: %w", err)
	}

	f.mu.Lock()
	f.list = roleList
	f.catalog = catalog
	f.loaded = true
	f.mu.Unlock()
	return nil
}

// EnsureLoaded loads the catalogs the first time the flow is used.
func (f *Flow) EnsureLoaded(ctx context.Context) error {
	f.mu.Lock()
	loaded := f.loaded
	f.mu.Unlock()
	if loaded {
		return nil
	}
	return f.LoadCatalogs(ctx)
}

func (f *Flow) reloadRoles(ctx context.Context) error {
	roleList, err := f.roles.List(ctx)
	if err != nil {
		f.notify(ctx, notifications.KindError, "Error al cargar los roles. Por favor, intenta de nuevo.")
		return fmt.Errorf("reload roles: %w", err)
	}
	f.mu.Lock()
	f.list = roleList
	f.mu.Unlock()
	return nil
}

func (f *Flow) Roles() []roles.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.list)
}

func (f *Flow) Catalog() []permissions.Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.catalog)
}

func (f *Flow) PageSize() int {
	return f.pageSize
}

// Query filters and paginates the loaded roles. The page is not clamped.
func (f *Flow) Query(q Query) listing.Page[roles.Role] {
	return Apply(f.Roles(), q, f.pageSize)
}

// Delete removes a role after the user confirms. Roles with users are refused
// without contacting the backend.
func (f *Flow) Delete(ctx context.Context, id string, confirmer Confirmer) error {
	role, ok := f.find(id)
	if !ok {
		return ErrRoleNotFound
	}
	if role.UserCount > 0 {
		inUse := &RoleInUseError{Name: role.Name, UserCount: role.UserCount}
		f.notify(ctx, notifications.KindError, inUse.Error())
		return inUse
	}
	if confirmer == nil || !confirmer.Confirm(ctx, DeletePrompt(role)) {
		return ErrNotConfirmed
	}

	if err := f.roles.Delete(ctx, role.ID); err != nil {
		f.notify(ctx, notifications.KindError, fmt.Sprintf("Error al eliminar el rol %q. Por favor, intenta de nuevo.", role.Name))
		return fmt.Errorf("delete role %s: %w", role.ID, err)
	}

	f.mu.Lock()
	f.list = slices.DeleteFunc(f.list, func(r roles.Role) bool { return r.ID == role.ID })
	f.mu.Unlock()
	f.notify(ctx, notifications.KindSuccess, fmt.Sprintf("Role %q has been deleted successfully.", role.Name))
	return nil
}

// DeletePrompt is the confirmation question shown before a delete.
func DeletePrompt(role roles.Role) string {
	return fmt.Sprintf("¿Estás seguro de que quieres eliminar el rol %q?", role.Name)
}

func (f *Flow) find(id string) (roles.Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.list {
		if r.ID == id {
			return r, true
		}
	}
	return roles.Role{}, false
}

func (f *Flow) notify(ctx context.Context, kind notifications.Kind, message string) {
	if f.notifier != nil {
		f.notifier.Notify(ctx, kind, message)
	}
}

// IsBusinessRule reports whether err was raised locally before any backend call.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrRoleInUse) || errors.Is(err, ErrNotConfirmed) || errors.Is(err, ErrInvalidDraft)
}
