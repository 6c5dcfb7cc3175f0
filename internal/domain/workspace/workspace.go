// Package workspace keeps the per-console-session administration state.
package workspace

import (
	"sync"
	"time"

	"hrmconsole/internal/domain/employees"
	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/domain/roleadmin"
	"hrmconsole/internal/domain/users"
)

// Workspace holds one console session's flows. Each flow guards its own state.
type Workspace struct {
	SessionID string
	Roles     *roleadmin.Flow
	Users     *users.Flow
	Employees *employees.Flow
}

type Deps struct {
	Roles         roleadmin.RoleStore
	Permissions   roleadmin.PermissionStore
	Users         users.Store
	Employees     employees.Store
	Notifier      notifications.Notifier
	RolesPageSize int
	UsersPageSize int
	Clock         func() time.Time
}

type Registry struct {
	deps Deps

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, items: make(map[string]*Workspace)}
}

// For returns the session's workspace, creating an empty one on first use.
func (r *Registry) For(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.items[sessionID]; ok {
		return ws
	}
	ws := r.build(sessionID)
	r.items[sessionID] = ws
	return ws
}

func (r *Registry) build(sessionID string) *Workspace {
	roleFlow := roleadmin.New(r.deps.Roles, r.deps.Permissions, r.deps.Notifier, r.deps.RolesPageSize)
	if r.deps.Clock != nil {
		roleFlow.SetClock(r.deps.Clock)
	}
	return &Workspace{
		SessionID: sessionID,
		Roles:     roleFlow,
		Users:     users.NewFlow(r.deps.Users, r.deps.Notifier, r.deps.UsersPageSize),
		Employees: employees.NewFlow(r.deps.Employees, r.deps.Notifier),
	}
}

// Forget drops the session's workspace, discarding any open editor.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.items, sessionID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
