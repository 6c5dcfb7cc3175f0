package roles

import (
	"time"

	"hrmconsole/internal/platform/backend"
)

// Role mirrors the backend role with its assigned permission codes. Codes are kept
// exactly as the backend returns them, inactive ones included.
type Role struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	Permissions []string  `json:"permissions"`
	UserCount   int       `json:"userCount"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// IsNew reports whether the role has not been persisted yet.
func (r Role) IsNew() bool {
	return r.ID == ""
}

// WritePayload is what create and update send to the backend.
type WritePayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsActive    bool     `json:"isActive"`
	Permissions []string `json:"permissions"`
}

type Wire struct {
	ID                int64    `json:"id,omitempty"`
	Nombre            string   `json:"nombre"`
	Descripcion       string   `json:"descripcion"`
	Activo            bool     `json:"activo"`
	FechaCreacion     string   `json:"fechaCreacion,omitempty"`
	FechaModificacion string   `json:"fechaModificacion,omitempty"`
	Permisos          []string `json:"permisos"`
	CantidadUsuarios  int      `json:"cantidadUsuarios,omitempty"`
}

type WriteWire struct {
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion"`
	Activo      bool     `json:"activo"`
	Permisos    []string `json:"permisos"`
}

func FromWire(w Wire) Role {
	created := backend.ParseTime(w.FechaCreacion)
	updated := backend.ParseTime(w.FechaModificacion)
	if updated.IsZero() {
		updated = created
	}
	perms := make([]string, len(w.Permisos))
	copy(perms, w.Permisos)
	return Role{
		ID:          backend.FormatID(w.ID),
		Name:        w.Nombre,
		Description: w.Descripcion,
		IsActive:    w.Activo,
		Permissions: perms,
		UserCount:   max(w.CantidadUsuarios, 0),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

func FromWireList(list []Wire) []Role {
	out := make([]Role, 0, len(list))
	for _, w := range list {
		out = append(out, FromWire(w))
	}
	return out
}

func ToWire(p WritePayload) WriteWire {
	perms := p.Permissions
	if perms == nil {
		perms = []string{}
	}
	return WriteWire{
		Nombre:      p.Name,
		Descripcion: p.Description,
		Activo:      p.IsActive,
		Permisos:    perms,
	}
}

// Summary is the header block of the role list.
type Summary struct {
	TotalRoles  int `json:"totalRoles"`
	ActiveRoles int `json:"activeRoles"`
	TotalUsers  int `json:"totalUsers"`
}

func Summarize(list []Role) Summary {
	s := Summary{TotalRoles: len(list)}
	for _, r := range list {
		if r.IsActive {
			s.ActiveRoles++
		}
		s.TotalUsers += r.UserCount
	}
	return s
}
