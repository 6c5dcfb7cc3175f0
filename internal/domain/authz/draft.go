// Package authz is the role editing model: a draft of a role's identity fields and
// its permission-code set, with category-aware bulk selection and validation. Nothing
// here performs I/O.
package authz

import (
	"strings"

	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roles"
)

// Draft is the unsaved edit of a role. Operations never mutate their input draft.
type Draft struct {
	Name        string
	Description string
	IsActive    bool
	Permissions CodeSet
}

// InitDraft seeds a draft from role, or the create defaults when role is nil.
func InitDraft(role *roles.Role) Draft {
	if role == nil {
		return Draft{IsActive: true, Permissions: CodeSet{}}
	}
	return Draft{
		Name:        role.Name,
		Description: role.Description,
		IsActive:    role.IsActive,
		Permissions: NewCodeSet(role.Permissions...),
	}
}

func (d Draft) withPermissions(set CodeSet) Draft {
	d.Permissions = set
	return d
}

// Toggle removes code when selected, adds it otherwise.
func Toggle(d Draft, code string) Draft {
	set := d.Permissions.Clone()
	if set.Has(code) {
		delete(set, code)
	} else {
		set[code] = struct{}{}
	}
	return d.withPermissions(set)
}

// SelectAll replaces the selection with every active code in the catalog. Assigned
// codes that are inactive or unknown are dropped.
func SelectAll(d Draft, catalog []permissions.Permission) Draft {
	set := CodeSet{}
	for _, p := range catalog {
		if p.IsActive {
			set[p.Code] = struct{}{}
		}
	}
	return d.withPermissions(set)
}

func ClearAll(d Draft) Draft {
	return d.withPermissions(CodeSet{})
}

// CategoryCodes returns the active codes grouped under category. Empty and blank
// categories are looked up under the uncategorized label.
func CategoryCodes(catalog []permissions.Permission, category string) CodeSet {
	label := permissions.CategoryLabel(category)
	set := CodeSet{}
	for _, p := range catalog {
		if p.IsActive && p.CategoryLabel() == label {
			set[p.Code] = struct{}{}
		}
	}
	return set
}

// ToggleCategory deselects the category when it is fully selected and selects all of
// it otherwise, so a partial category behaves like an unselected one. A category with
// no active permissions leaves the draft unchanged.
func ToggleCategory(d Draft, catalog []permissions.Permission, category string) Draft {
	codes := CategoryCodes(catalog, category)
	if codes.Len() == 0 {
		return d.withPermissions(d.Permissions.Clone())
	}
	set := d.Permissions.Clone()
	if set.ContainsAll(codes) {
		for c := range codes {
			delete(set, c)
		}
	} else {
		for c := range codes {
			set[c] = struct{}{}
		}
	}
	return d.withPermissions(set)
}

// BuildSubmitPayload trims the text fields and passes the selection through as-is.
func BuildSubmitPayload(d Draft) roles.WritePayload {
	return roles.WritePayload{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		IsActive:    d.IsActive,
		Permissions: d.Permissions.Sorted(),
	}
}
