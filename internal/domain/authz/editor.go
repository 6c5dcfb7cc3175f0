package authz

import (
	"maps"

	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roles"
)

// Editor carries a draft together with the inline errors shown next to its fields.
// Editing a field clears that field's error; only a single-code toggle clears the
// permissions error.
type Editor struct {
	RoleID string
	draft  Draft
	errs   map[Field]string
}

// NewEditor opens an editor for role, or for a new role when role is nil.
func NewEditor(role *roles.Role) *Editor {
	e := &Editor{draft: InitDraft(role), errs: map[Field]string{}}
	if role != nil {
		e.RoleID = role.ID
	}
	return e
}

func (e *Editor) IsCreate() bool {
	return e.RoleID == ""
}

func (e *Editor) Draft() Draft {
	d := e.draft
	d.Permissions = d.Permissions.Clone()
	return d
}

func (e *Editor) Errors() []FieldError {
	var out []FieldError
	for _, f := range []Field{FieldName, FieldDescription, FieldPermissions} {
		if msg, ok := e.errs[f]; ok {
			out = append(out, FieldError{Field: f, Message: msg})
		}
	}
	return out
}

func (e *Editor) SetName(name string) {
	e.draft.Name = name
	delete(e.errs, FieldName)
}

func (e *Editor) SetDescription(description string) {
	e.draft.Description = description
	delete(e.errs, FieldDescription)
}

func (e *Editor) SetActive(active bool) {
	e.draft.IsActive = active
}

func (e *Editor) Toggle(code string) {
	e.draft = Toggle(e.draft, code)
	delete(e.errs, FieldPermissions)
}

func (e *Editor) SelectAll(catalog []permissions.Permission) {
	e.draft = SelectAll(e.draft, catalog)
}

func (e *Editor) ClearAll() {
	e.draft = ClearAll(e.draft)
}

func (e *Editor) ToggleCategory(catalog []permissions.Permission, category string) {
	e.draft = ToggleCategory(e.draft, catalog, category)
}

// Validate replaces the recorded errors with a fresh validation and reports whether
// the draft passed.
func (e *Editor) Validate() bool {
	errs := Validate(e.draft)
	e.errs = make(map[Field]string, len(errs))
	for _, fe := range errs {
		e.errs[fe.Field] = fe.Message
	}
	return len(errs) == 0
}

// Clone copies the editor so callers can work on it without holding a lock.
func (e *Editor) Clone() *Editor {
	out := &Editor{RoleID: e.RoleID, draft: e.Draft(), errs: maps.Clone(e.errs)}
	if out.errs == nil {
		out.errs = map[Field]string{}
	}
	return out
}
