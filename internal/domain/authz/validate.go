package authz

import (
	"strings"
	"unicode/utf8"
)

type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPermissions Field = "permissions"
)

const (
	minNameLength        = 3
	minDescriptionLength = 10
)

type FieldError struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return string(e.Field) + ": " + e.Message
}

// Validate checks every field independently and returns all failures, in field order.
func Validate(d Draft) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		errs = append(errs, FieldError{FieldName, "El nombre del rol es requerido"})
	case utf8.RuneCountInString(name) < minNameLength:
		errs = append(errs, FieldError{FieldName, "El nombre debe tener al menos 3 caracteres"})
	}

	description := strings.TrimSpace(d.Description)
	switch {
	case description == "":
		errs = append(errs, FieldError{FieldDescription, "La descripción es requerida"})
	case utf8.RuneCountInString(description) < minDescriptionLength:
		errs = append(errs, FieldError{FieldDescription, "La descripción debe tener al menos 10 caracteres"})
	}

	if d.Permissions.Len() == 0 {
		errs = append(errs, FieldError{FieldPermissions, "Debe seleccionar al menos un permiso"})
	}
	return errs
}
