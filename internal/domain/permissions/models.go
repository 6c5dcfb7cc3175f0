package permissions

import (
	"strings"
	"time"

	"hrmconsole/internal/platform/backend"
)

// UncategorizedLabel groups permissions whose category is empty.
const UncategorizedLabel = "Sin categoría"

type Permission struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// CategoryLabel is the grouping key used by the role editor.
func (p Permission) CategoryLabel() string {
	return CategoryLabel(p.Category)
}

func CategoryLabel(category string) string {
	if strings.TrimSpace(category) == "" {
		return UncategorizedLabel
	}
	return category
}

// Input is a create/update request. A nil IsActive is sent as active.
type Input struct {
	Code        string `json:"code" validate:"notblank,max=100"`
	Name        string `json:"name" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=255"`
	Category    string `json:"category" validate:"max=50"`
	IsActive    *bool  `json:"isActive"`
}

// Wire is the backend's permiso record.
type Wire struct {
	ID            int64  `json:"id"`
	Codigo        string `json:"codigo"`
	Nombre        string `json:"nombre"`
	Descripcion   string `json:"descripcion"`
	Categoria     string `json:"categoria"`
	Activo        bool   `json:"activo"`
	FechaCreacion string `json:"fechaCreacion,omitempty"`
}

type WriteWire struct {
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Categoria   string `json:"categoria"`
	Activo      bool   `json:"activo"`
}

func FromWire(w Wire) Permission {
	return Permission{
		ID:          backend.FormatID(w.ID),
		Code:        w.Codigo,
		Name:        w.Nombre,
		Description: w.Descripcion,
		Category:    w.Categoria,
		IsActive:    w.Activo,
		CreatedAt:   backend.ParseTime(w.FechaCreacion),
	}
}

func FromWireList(list []Wire) []Permission {
	out := make([]Permission, 0, len(list))
	for _, w := range list {
		out = append(out, FromWire(w))
	}
	return out
}

func ToWire(in Input) WriteWire {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return WriteWire{
		Codigo:      in.Code,
		Nombre:      in.Name,
		Descripcion: in.Description,
		Categoria:   in.Category,
		Activo:      active,
	}
}

// NameOf resolves a code to its display name, falling back to the code itself.
func NameOf(catalog []Permission, code string) string {
	for _, p := range catalog {
		if p.Code == code {
			return p.Name
		}
	}
	return code
}

// Categories lists the distinct raw categories in first-seen order.
func Categories(catalog []Permission) []string {
	seen := make(map[string]struct{}, len(catalog))
	var out []string
	for _, p := range catalog {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
