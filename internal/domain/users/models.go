package users

import (
	"strings"
	"time"

	"hrmconsole/internal/domain/employees"
	"hrmconsole/internal/platform/backend"
)

type RoleRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type EmployeeRef struct {
	ID         string    `json:"id,omitempty"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	HireDate   time.Time `json:"hireDate,omitzero"`
}

type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt,omitzero"`
	LastLogin time.Time    `json:"lastLogin,omitzero"`
	Role      RoleRef      `json:"role"`
	Employee  *EmployeeRef `json:"employee,omitempty"`
}

// CreateInput is the new-user form, optionally creating the linked employee.
type CreateInput struct {
	Username string           `json:"username" validate:"notblank"`
	Password string           `json:"password" validate:"notblank"`
	Email    string           `json:"email" validate:"required,email"`
	RoleID   int64            `json:"roleId" validate:"gt=0"`
	Employee *employees.Input `json:"employee"`
}

// UpdateInput edits an account. An empty password leaves it unchanged.
type UpdateInput struct {
	Username string           `json:"username" validate:"notblank"`
	Password string           `json:"password"`
	Email    string           `json:"email" validate:"required,email"`
	IsActive *bool            `json:"isActive"`
	RoleID   int64            `json:"roleId" validate:"gt=0"`
	Employee *employees.Input `json:"employee"`
}

type roleWire struct {
	ID          int64  `json:"id"`
	Nombre      string `json:"nombre,omitempty"`
	Descripcion string `json:"descripcion,omitempty"`
}

type employeeRefWire struct {
	ID                int64  `json:"id,omitempty"`
	Nombres           string `json:"nombres"`
	Apellidos         string `json:"apellidos"`
	Departamento      string `json:"departamento,omitempty"`
	Cargo             string `json:"cargo,omitempty"`
	FechaContratacion string `json:"fechaContratacion,omitempty"`
	FechaIngreso      string `json:"fechaIngreso,omitempty"`
}

type Wire struct {
	ID            int64            `json:"id,omitempty"`
	Username      string           `json:"username"`
	Email         string           `json:"email"`
	Activo        bool             `json:"activo"`
	FechaCreacion string           `json:"fechaCreacion,omitempty"`
	UltimoLogin   string           `json:"ultimoLogin,omitempty"`
	Rol           roleWire         `json:"rol"`
	Empleado      *employeeRefWire `json:"empleado,omitempty"`
}

type writeWire struct {
	Username string          `json:"username"`
	Password string          `json:"password,omitempty"`
	Email    string          `json:"email"`
	Activo   bool            `json:"activo"`
	Rol      roleWire        `json:"rol"`
	Empleado *employees.Wire `json:"empleado,omitempty"`
}

func FromWire(w Wire) User {
	u := User{
		ID:        backend.FormatID(w.ID),
		Username:  w.Username,
		Email:     w.Email,
		IsActive:  w.Activo,
		CreatedAt: backend.ParseTime(w.FechaCreacion),
		LastLogin: backend.ParseTime(w.UltimoLogin),
		Role:      RoleRef{ID: w.Rol.ID, Name: w.Rol.Nombre, Description: w.Rol.Descripcion},
	}
	if e := w.Empleado; e != nil {
		hired := e.FechaContratacion
		if hired == "" {
			hired = e.FechaIngreso
		}
		u.Employee = &EmployeeRef{
			ID:         backend.FormatID(e.ID),
			FirstName:  e.Nombres,
			LastName:   e.Apellidos,
			Department: e.Departamento,
			Position:   e.Cargo,
			HireDate:   backend.ParseTime(hired),
		}
	}
	return u
}

func FromWireList(list []Wire) []User {
	out := make([]User, 0, len(list))
	for _, w := range list {
		out = append(out, FromWire(w))
	}
	return out
}

// createWire always creates active accounts; a linked employee starts ACTIVO.
func createWire(in CreateInput) writeWire {
	w := writeWire{
		Username: strings.TrimSpace(in.Username),
		Password: in.Password,
		Email:    strings.TrimSpace(in.Email),
		Activo:   true,
		Rol:      roleWire{ID: in.RoleID},
	}
	if in.Employee != nil {
		emp := *in.Employee
		emp.Status = employees.StatusActive
		ew := employees.ToWire(emp)
		w.Empleado = &ew
	}
	return w
}

// updateWire treats a missing isActive as active.
func updateWire(in UpdateInput) writeWire {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	w := writeWire{
		Username: strings.TrimSpace(in.Username),
		Password: in.Password,
		Email:    strings.TrimSpace(in.Email),
		Activo:   active,
		Rol:      roleWire{ID: in.RoleID},
	}
	if in.Employee != nil {
		ew := employees.ToWire(*in.Employee)
		w.Empleado = &ew
	}
	return w
}
