package roleadmin

import (
	"context"
	"fmt"

	"hrmconsole/internal/domain/authz"
	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roles"
)

// EditorView is the open editor as rendered by the UI.
type EditorView struct {
	Mode        string               `json:"mode"`
	RoleID      string               `json:"roleId,omitempty"`
	State       State                `json:"state"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsActive    bool                 `json:"isActive"`
	Permissions []string             `json:"permissions"`
	Selected    int                  `json:"selected"`
	Available   int                  `json:"available"`
	Categories  []authz.CategoryView `json:"categories"`
	Errors      []authz.FieldError   `json:"errors"`
}

// FieldsUpdate sets the identity fields that are non-nil.
type FieldsUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OpenCreate opens an empty editor, replacing any draft in progress.
func (f *Flow) OpenCreate() (EditorView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return EditorView{}, ErrSubmitInFlight
	}
	f.editor = authz.NewEditor(nil)
	f.state = StateEditing
	return f.viewLocked(), nil
}

// OpenEdit seeds the editor from the loaded role with id.
func (f *Flow) OpenEdit(id string) (EditorView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return EditorView{}, ErrSubmitInFlight
	}
	for i := range f.list {
		if f.list[i].ID == id {
			role := f.list[i]
			f.editor = authz.NewEditor(&role)
			f.state = StateEditing
			return f.viewLocked(), nil
		}
	}
	return EditorView{}, ErrRoleNotFound
}

// Cancel discards the draft. A pending submit cannot be cancelled.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateClosed:
		return ErrNotEditing
	}
	f.editor = nil
	f.state = StateClosed
	return nil
}

func (f *Flow) Editor() (EditorView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editor == nil {
		return EditorView{}, ErrNotEditing
	}
	return f.viewLocked(), nil
}

func (f *Flow) UpdateFields(u FieldsUpdate) (EditorView, error) {
	return f.edit(func(e *authz.Editor, _ []permissions.Permission) {
		if u.Name != nil {
			e.SetName(*u.Name)
		}
		if u.Description != nil {
			e.SetDescription(*u.Description)
		}
		if u.IsActive != nil {
			e.SetActive(*u.IsActive)
		}
	})
}

func (f *Flow) TogglePermission(code string) (EditorView, error) {
	return f.edit(func(e *authz.Editor, _ []permissions.Permission) { e.Toggle(code) })
}

func (f *Flow) SelectAll() (EditorView, error) {
	return f.edit(func(e *authz.Editor, catalog []permissions.Permission) { e.SelectAll(catalog) })
}

func (f *Flow) ClearAll() (EditorView, error) {
	return f.edit(func(e *authz.Editor, _ []permissions.Permission) { e.ClearAll() })
}

func (f *Flow) ToggleCategory(category string) (EditorView, error) {
	return f.edit(func(e *authz.Editor, catalog []permissions.Permission) { e.ToggleCategory(catalog, category) })
}

func (f *Flow) edit(apply func(*authz.Editor, []permissions.Permission)) (EditorView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.state == StateSubmitting:
		return EditorView{}, ErrSubmitInFlight
	case f.editor == nil:
		return EditorView{}, ErrNotEditing
	}
	apply(f.editor, f.catalog)
	return f.viewLocked(), nil
}

// Submit validates the open draft and persists it. Field errors keep the editor
// open; a backend failure returns it to editing with the draft intact.
func (f *Flow) Submit(ctx context.Context) (roles.Role, error) {
	f.mu.Lock()
	if f.editor == nil {
		f.mu.Unlock()
		return roles.Role{}, ErrNotEditing
	}
	if f.inFlight {
		f.mu.Unlock()
		return roles.Role{}, ErrSubmitInFlight
	}
	if !f.editor.Validate() {
		errs := f.editor.Errors()
		f.mu.Unlock()
		return roles.Role{}, &ValidationError{Fields: errs}
	}
	editor := f.editor
	roleID := editor.RoleID
	payload := authz.BuildSubmitPayload(editor.Draft())
	f.inFlight = true
	f.state = StateSubmitting
	f.mu.Unlock()

	var (
		saved roles.Role
		err   error
	)
	if roleID == "" {
		saved, err = f.persistCreate(ctx, payload)
	} else {
		saved, err = f.persistUpdate(ctx, roleID, payload)
	}

	f.mu.Lock()
	f.inFlight = false
	if err != nil {
		f.state = StateEditing
	} else if f.editor == editor {
		f.editor = nil
		f.state = StateClosed
	}
	f.mu.Unlock()
	return saved, err
}

// SubmitCreate persists a new role and reloads the role list to learn its id.
func (f *Flow) SubmitCreate(ctx context.Context, payload roles.WritePayload) (roles.Role, error) {
	if err := f.acquire(); err != nil {
		return roles.Role{}, err
	}
	defer f.release()
	return f.persistCreate(ctx, payload)
}

// SubmitUpdate persists changes to role id and patches it in the local list.
func (f *Flow) SubmitUpdate(ctx context.Context, id string, payload roles.WritePayload) (roles.Role, error) {
	if err := f.acquire(); err != nil {
		return roles.Role{}, err
	}
	defer f.release()
	return f.persistUpdate(ctx, id, payload)
}

func (f *Flow) acquire() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return ErrSubmitInFlight
	}
	f.inFlight = true
	return nil
}

func (f *Flow) release() {
	f.mu.Lock()
	f.inFlight = false
	f.mu.Unlock()
}

func (f *Flow) persistCreate(ctx context.Context, payload roles.WritePayload) (roles.Role, error) {
	created, err := f.roles.Create(ctx, payload)
	if err != nil {
		f.notify(ctx, notifications.KindError, fmt.Sprintf("Error al crear el rol %q. Por favor, intenta de nuevo.", payload.Name))
		return roles.Role{}, fmt.Errorf("create role: %w", err)
	}
	// A failed reload is reported on its own; the role was still created.
	_ = f.reloadRoles(ctx)
	if found, ok := f.findCreated(created, payload); ok {
		created = found
	}
	f.notify(ctx, notifications.KindSuccess, fmt.Sprintf("Role %q created successfully!", payload.Name))
	return created, nil
}

// findCreated locates the new role in the reloaded list, by id when the backend
// echoed one and by name otherwise.
func (f *Flow) findCreated(created roles.Role, payload roles.WritePayload) (roles.Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.list) - 1; i >= 0; i-- {
		r := f.list[i]
		if (created.ID != "" && r.ID == created.ID) || (created.ID == "" && r.Name == payload.Name) {
			return r, true
		}
	}
	return roles.Role{}, false
}

func (f *Flow) persistUpdate(ctx context.Context, id string, payload roles.WritePayload) (roles.Role, error) {
	if _, err := f.roles.Update(ctx, id, payload); err != nil {
		f.notify(ctx, notifications.KindError, fmt.Sprintf("Error al actualizar el rol %q. Por favor, intenta de nuevo.", payload.Name))
		return roles.Role{}, fmt.Errorf("update role %s: %w", id, err)
	}

	f.mu.Lock()
	patched := roles.Role{ID: id}
	for i := range f.list {
		if f.list[i].ID == id {
			patched = f.list[i]
			break
		}
	}
	patched.Name = payload.Name
	patched.Description = payload.Description
	patched.IsActive = payload.IsActive
	patched.Permissions = append([]string(nil), payload.Permissions...)
	patched.UpdatedAt = f.now()
	for i := range f.list {
		if f.list[i].ID == id {
			f.list[i] = patched
		}
	}
	f.mu.Unlock()

	f.notify(ctx, notifications.KindSuccess, fmt.Sprintf("Role %q updated successfully!", payload.Name))
	return patched, nil
}

func (f *Flow) viewLocked() EditorView {
	e := f.editor
	d := e.Draft()
	view := EditorView{
		Mode:        "edit",
		RoleID:      e.RoleID,
		State:       f.state,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		Permissions: d.Permissions.Sorted(),
		Selected:    d.Permissions.Len(),
		Categories:  authz.CategoryViews(d, f.catalog),
		Errors:      e.Errors(),
	}
	if e.IsCreate() {
		view.Mode = "create"
	}
	for _, p := range f.catalog {
		if p.IsActive {
			view.Available++
		}
	}
	if view.Errors == nil {
		view.Errors = []authz.FieldError{}
	}
	return view
}
