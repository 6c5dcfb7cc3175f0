package employees

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrmconsole/internal/platform/backend"
)

const (
	StatusActive   = "ACTIVO"
	StatusInactive = "INACTIVO"
)

const dateLayout = "2006-01-02"

type Employee struct {
	ID        string          `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	DNI       string          `json:"dni"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	BirthDate time.Time       `json:"birthDate,omitzero"`
	HireDate  time.Time       `json:"hireDate,omitzero"`
	Salary    decimal.Decimal `json:"salary"`
	Status    string          `json:"status"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

// Input is the employee form. Dates are YYYY-MM-DD.
type Input struct {
	FirstName string           `json:"firstName" validate:"notblank"`
	LastName  string           `json:"lastName" validate:"notblank"`
	DNI       string           `json:"dni" validate:"notblank"`
	Email     string           `json:"email" validate:"required,email"`
	Phone     string           `json:"phone"`
	Address   string           `json:"address"`
	BirthDate string           `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	HireDate  string           `json:"hireDate" validate:"required,datetime=2006-01-02"`
	Salary    *decimal.Decimal `json:"salary"`
	Status    string           `json:"status" validate:"omitempty,oneof=ACTIVO INACTIVO"`
}

// Wire is the backend's empleado record. Salary travels as a JSON number.
type Wire struct {
	ID              int64       `json:"id,omitempty"`
	Nombres         string      `json:"nombres"`
	Apellidos       string      `json:"apellidos"`
	DNI             string      `json:"dni,omitempty"`
	Email           string      `json:"email,omitempty"`
	Telefono        string      `json:"telefono,omitempty"`
	Direccion       string      `json:"direccion,omitempty"`
	FechaNacimiento string      `json:"fechaNacimiento,omitempty"`
	FechaIngreso    string      `json:"fechaIngreso,omitempty"`
	Salario         json.Number `json:"salario,omitempty"`
	Estado          string      `json:"estado,omitempty"`
}

func FromWire(w Wire) Employee {
	return Employee{
		ID:        backend.FormatID(w.ID),
		FirstName: w.Nombres,
		LastName:  w.Apellidos,
		DNI:       w.DNI,
		Email:     w.Email,
		Phone:     w.Telefono,
		Address:   w.Direccion,
		BirthDate: backend.ParseTime(w.FechaNacimiento),
		HireDate:  backend.ParseTime(w.FechaIngreso),
		Salary:    parseAmount(w.Salario),
		Status:    w.Estado,
	}
}

func FromWireList(list []Wire) []Employee {
	out := make([]Employee, 0, len(list))
	for _, w := range list {
		out = append(out, FromWire(w))
	}
	return out
}

// ToWire maps the form to the backend shape. A blank status is sent as ACTIVO.
func ToWire(in Input) Wire {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	w := Wire{
		Nombres:         strings.TrimSpace(in.FirstName),
		Apellidos:       strings.TrimSpace(in.LastName),
		DNI:             strings.TrimSpace(in.DNI),
		Email:           strings.TrimSpace(in.Email),
		Telefono:        in.Phone,
		Direccion:       in.Address,
		FechaNacimiento: in.BirthDate,
		FechaIngreso:    in.HireDate,
		Estado:          status,
	}
	if in.Salary != nil {
		w.Salario = json.Number(in.Salary.String())
	}
	return w
}

// InputFrom seeds the edit form from an existing record.
func InputFrom(e Employee) Input {
	in := Input{
		FirstName: e.FirstName,
		LastName:  e.LastName,
		DNI:       e.DNI,
		Email:     e.Email,
		Phone:     e.Phone,
		Address:   e.Address,
		Status:    e.Status,
	}
	if !e.BirthDate.IsZero() {
		in.BirthDate = e.BirthDate.Format(dateLayout)
	}
	if !e.HireDate.IsZero() {
		in.HireDate = e.HireDate.Format(dateLayout)
	}
	salary := e.Salary
	in.Salary = &salary
	return in
}

func parseAmount(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Stats are the directory's headline numbers.
type Stats struct {
	Total         int             `json:"total"`
	Active        int             `json:"active"`
	Inactive      int             `json:"inactive"`
	AverageSalary decimal.Decimal `json:"averageSalary"`
}

type statsWire struct {
	TotalEmpleados     json.Number `json:"totalEmpleados"`
	EmpleadosActivos   json.Number `json:"empleadosActivos"`
	EmpleadosInactivos json.Number `json:"empleadosInactivos"`
	SalarioPromedio    json.Number `json:"salarioPromedio"`
}

func statsFromWire(w statsWire) Stats {
	return Stats{
		Total:         int(parseAmount(w.TotalEmpleados).IntPart()),
		Active:        int(parseAmount(w.EmpleadosActivos).IntPart()),
		Inactive:      int(parseAmount(w.EmpleadosInactivos).IntPart()),
		AverageSalary: parseAmount(w.SalarioPromedio),
	}
}

// ComputeStats derives the same numbers from a loaded list. The average is rounded
// to cents.
func ComputeStats(list []Employee) Stats {
	s := Stats{Total: len(list), AverageSalary: decimal.Zero}
	sum := decimal.Zero
	for _, e := range list {
		switch e.Status {
		case StatusActive:
			s.Active++
		case StatusInactive:
			s.Inactive++
		}
		sum = sum.Add(e.Salary)
	}
	if len(list) > 0 {
		s.AverageSalary = sum.Div(decimal.NewFromInt(int64(len(list)))).Round(2)
	}
	return s
}
