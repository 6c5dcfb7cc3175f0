package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/platform/backend"
	"hrmconsole/internal/platform/listing"
	"hrmconsole/internal/platform/validation"
)

var (
	ErrNotFound       = errors.New("employee not found")
	ErrNotConfirmed   = errors.New("deletion not confirmed")
	ErrSubmitInFlight = errors.New("an employee submission is already in progress")
)

const DeletePrompt = "¿Está seguro de eliminar este empleado?"

type Store interface {
	List(ctx context.Context) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, in Input) (Employee, error)
	Update(ctx context.Context, id string, in Input) (Employee, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

var inputMessages = validation.Messages{
	"firstName":      "El nombre es requerido",
	"lastName":       "El apellido es requerido",
	"dni":            "El DNI es requerido",
	"email.required": "El email es requerido",
	"email.email":    "Email inválido",
	"hireDate":       "La fecha de ingreso es requerida",
	"birthDate":      "Fecha de nacimiento inválida",
	"status":         "Estado inválido",
}

func (in Input) Validate() error {
	var extra []validation.Issue
	if in.Salary != nil && in.Salary.IsNegative() {
		extra = append(extra, validation.Issue{Field: "salary", Message: "El salario no puede ser negativo"})
	}
	return validation.Check(in, inputMessages, extra...)
}

// Flow is one console session's employee directory.
type Flow struct {
	store    Store
	notifier notifications.Notifier

	mu       sync.Mutex
	list     []Employee
	loaded   bool
	inFlight bool
}

func NewFlow(store Store, notifier notifications.Notifier) *Flow {
	return &Flow{store: store, notifier: notifier}
}

func (f *Flow) Load(ctx context.Context) error {
	list, err := f.store.List(ctx)
	if err != nil {
		f.notify(ctx, notifications.KindError, "Error al cargar empleados")
		return fmt.Errorf("load employees: %w", err)
	}
	f.mu.Lock()
	f.list = list
	f.loaded = true
	f.mu.Unlock()
	return nil
}

func (f *Flow) EnsureLoaded(ctx context.Context) error {
	f.mu.Lock()
	loaded := f.loaded
	f.mu.Unlock()
	if loaded {
		return nil
	}
	return f.Load(ctx)
}

func (f *Flow) Employees() []Employee {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.list)
}

type Query struct {
	Search string
	// Status is ACTIVO, INACTIVO, or empty/"all" for both.
	Status string
	Page   int
}

// Search matches first name, last name and email ignoring case, and the DNI as an
// exact-case substring.
func Search(list []Employee, term string) []Employee {
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if listing.ContainsFold(e.FirstName, term) ||
			listing.ContainsFold(e.LastName, term) ||
			listing.ContainsFold(e.Email, term) ||
			strings.Contains(e.DNI, term) {
			out = append(out, e)
		}
	}
	return out
}

func FilterByStatus(list []Employee, status string) []Employee {
	if status == "" || strings.EqualFold(status, "all") {
		return slices.Clone(list)
	}
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Query filters the directory; a non-positive pageSize returns every match on one page.
func (f *Flow) Query(q Query, pageSize int) listing.Page[Employee] {
	filtered := FilterByStatus(Search(f.Employees(), q.Search), q.Status)
	if pageSize <= 0 {
		pageSize = max(len(filtered), 1)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return listing.NewPage(filtered, page, pageSize)
}

func (f *Flow) Create(ctx context.Context, in Input) (Employee, error) {
	if err := in.Validate(); err != nil {
		return Employee{}, err
	}
	if err := f.acquire(); err != nil {
		return Employee{}, err
	}
	defer f.release()

	created, err := f.store.Create(ctx, in)
	if err != nil {
		f.notify(ctx, notifications.KindError, "Error al crear empleado")
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	f.mu.Lock()
	f.list = append(f.list, created)
	f.mu.Unlock()
	f.notify(ctx, notifications.KindSuccess, "Empleado creado exitosamente")
	return created, nil
}

// Update replaces the local record with the backend's answer.
func (f *Flow) Update(ctx context.Context, id string, in Input) (Employee, error) {
	if err := in.Validate(); err != nil {
		return Employee{}, err
	}
	if err := f.acquire(); err != nil {
		return Employee{}, err
	}
	defer f.release()

	updated, err := f.store.Update(ctx, id, in)
	if err != nil {
		f.notify(ctx, notifications.KindError, "Error al actualizar empleado")
		return Employee{}, fmt.Errorf("update employee %s: %w", id, err)
	}
	if updated.ID == "" {
		updated.ID = id
	}
	f.mu.Lock()
	for i := range f.list {
		if f.list[i].ID == id {
			f.list[i] = updated
		}
	}
	f.mu.Unlock()
	f.notify(ctx, notifications.KindSuccess, "Empleado actualizado exitosamente")
	return updated, nil
}

func (f *Flow) Delete(ctx context.Context, id string, confirmer Confirmer) error {
	if _, ok := f.find(id); !ok {
		return ErrNotFound
	}
	if confirmer == nil || !confirmer.Confirm(ctx, DeletePrompt) {
		return ErrNotConfirmed
	}
	if err := f.store.Delete(ctx, id); err != nil {
		f.notify(ctx, notifications.KindError, "Error al eliminar empleado")
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	f.mu.Lock()
	f.list = slices.DeleteFunc(f.list, func(e Employee) bool { return e.ID == id })
	f.mu.Unlock()
	return nil
}

// Stats asks the backend and falls back to the loaded list when it cannot answer.
func (f *Flow) Stats(ctx context.Context) Stats {
	stats, err := f.store.Stats(ctx)
	if err == nil {
		return stats
	}
	slog.Warn("employee stats unavailable, computing locally", "err", err)
	return ComputeStats(f.Employees())
}

func (f *Flow) find(id string) (Employee, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.list {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
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

func (f *Flow) notify(ctx context.Context, kind notifications.Kind, message string) {
	if f.notifier != nil {
		f.notifier.Notify(ctx, kind, message)
	}
}

// Get reads one employee fresh from the backend, leaving the local list untouched.
func (f *Flow) Get(ctx context.Context, id string) (Employee, error) {
	rec, err := f.store.Get(ctx, id)
	if backend.StatusOf(err) == http.StatusNotFound {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("get employee %s: %w", id, err)
	}
	return rec, nil
}
