package roleadmin

import (
	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roles"
)

// Summary backs the role list header and the permission chips on each role card.
type Summary struct {
	roles.Summary
	TotalPermissions int               `json:"totalPermissions"`
	Categories       []string          `json:"categories"`
	PermissionNames  map[string]string `json:"permissionNames"`
}

func (f *Flow) Summary() Summary {
	return Summarize(f.Roles(), f.Catalog())
}

// Summarize resolves every assigned code to a display name. Codes missing from the
// catalog map to themselves.
func Summarize(list []roles.Role, catalog []permissions.Permission) Summary {
	s := Summary{
		Summary:          roles.Summarize(list),
		TotalPermissions: len(catalog),
		Categories:       permissions.Categories(catalog),
		PermissionNames:  make(map[string]string, len(catalog)),
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	for _, p := range catalog {
		s.PermissionNames[p.Code] = p.Name
	}
	for _, r := range list {
		for _, code := range r.Permissions {
			if _, ok := s.PermissionNames[code]; !ok {
				s.PermissionNames[code] = permissions.NameOf(catalog, code)
			}
		}
	}
	return s
}
