package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/platform/backend"
	"hrmconsole/internal/platform/listing"
	"hrmconsole/internal/platform/validation"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrNotConfirmed   = errors.New("deletion not confirmed")
	ErrSubmitInFlight = errors.New("a user submission is already in progress")
)

const DefaultPageSize = 8

type Store interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, in CreateInput) error
	Update(ctx context.Context, id string, in UpdateInput) (User, bool, error)
	Delete(ctx context.Context, id string) error
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

var inputMessages = validation.Messages{
	"username":                "El nombre de usuario es requerido",
	"password":                "La contraseña es requerida",
	"email.required":          "El email es requerido",
	"email.email":             "Email inválido",
	"roleId":                  "El rol es requerido",
	"employee.firstName":      "El nombre es requerido",
	"employee.lastName":       "El apellido es requerido",
	"employee.dni":            "El DNI es requerido",
	"employee.email.required": "El email del empleado es requerido",
	"employee.email.email":    "Email inválido",
	"employee.hireDate":       "La fecha de ingreso es requerida",
}

func (in CreateInput) Validate() error {
	return validation.Check(in, inputMessages)
}

func (in UpdateInput) Validate() error {
	return validation.Check(in, inputMessages)
}

type Query struct {
	Search string
	// RoleID filters by role; empty or "all" keeps every role.
	RoleID string
	Status listing.StatusFilter
	Page   int
}

// Search matches username, email and the linked employee's names, ignoring case.
func Search(list []User, term string) []User {
	out := make([]User, 0, len(list))
	for _, u := range list {
		match := listing.ContainsFold(u.Username, term) || listing.ContainsFold(u.Email, term)
		if !match && u.Employee != nil {
			match = (u.Employee.FirstName != "" && listing.ContainsFold(u.Employee.FirstName, term)) ||
				(u.Employee.LastName != "" && listing.ContainsFold(u.Employee.LastName, term))
		}
		if match {
			out = append(out, u)
		}
	}
	return out
}

func FilterByRole(list []User, roleID string) []User {
	if roleID == "" || roleID == "all" {
		return slices.Clone(list)
	}
	out := make([]User, 0, len(list))
	for _, u := range list {
		if strconv.FormatInt(u.Role.ID, 10) == roleID {
			out = append(out, u)
		}
	}
	return out
}

func FilterByStatus(list []User, status listing.StatusFilter) []User {
	out := make([]User, 0, len(list))
	for _, u := range list {
		if status.Matches(u.IsActive) {
			out = append(out, u)
		}
	}
	return out
}

func Apply(list []User, q Query, pageSize int) listing.Page[User] {
	filtered := FilterByStatus(FilterByRole(Search(list, q.Search), q.RoleID), q.Status)
	return listing.NewPage(filtered, q.Page, pageSize)
}

// Flow is one console session's user administration.
type Flow struct {
	store    Store
	notifier notifications.Notifier
	pageSize int
	now      func() time.Time

	mu       sync.Mutex
	list     []User
	loaded   bool
	inFlight bool
}

func NewFlow(store Store, notifier notifications.Notifier, pageSize int) *Flow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Flow{store: store, notifier: notifier, pageSize: pageSize, now: time.Now}
}

func (f *Flow) PageSize() int {
	return f.pageSize
}

func (f *Flow) Load(ctx context.Context) error {
	list, err := f.store.List(ctx)
	if err != nil {
		f.notify(ctx, notifications.KindError, "Error al cargar los usuarios. Por favor, intenta de nuevo.")
		return fmt.Errorf("load users: %w", err)
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

func (f *Flow) Users() []User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.list)
}

// Query filters and paginates without clamping the page.
func (f *Flow) Query(q Query) listing.Page[User] {
	return Apply(f.Users(), q, f.pageSize)
}

// Create persists the account and reloads the list to pick up its id.
func (f *Flow) Create(ctx context.Context, in CreateInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := f.acquire(); err != nil {
		return err
	}
	defer f.release()

	if err := f.store.Create(ctx, in); err != nil {
		f.notify(ctx, notifications.KindError, fmt.Sprintf("Error al crear el usuario: %v", err))
		return fmt.Errorf("create user: %w", err)
	}
	_ = f.Load(ctx)
	f.notify(ctx, notifications.KindSuccess, "Usuario creado exitosamente!")
	return nil
}

// Update persists the edit and replaces the local record, patching it from the
// input when the backend answers with no body.
func (f *Flow) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	if err := in.Validate(); err != nil {
		return User{}, err
	}
	current, ok := f.find(id)
	if !ok {
		return User{}, ErrNotFound
	}
	if err := f.acquire(); err != nil {
		return User{}, err
	}
	defer f.release()

	updated, returned, err := f.store.Update(ctx, id, in)
	if err != nil {
		f.notify(ctx, notifications.KindError, fmt.Sprintf("Error al actualizar el usuario: %v", err))
		return User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	if !returned {
		updated = patch(current, in)
	}

	f.mu.Lock()
	for i := range f.list {
		if f.list[i].ID == id {
			f.list[i] = updated
		}
	}
	f.mu.Unlock()
	f.notify(ctx, notifications.KindSuccess, "Usuario actualizado exitosamente!")
	return updated, nil
}

func patch(u User, in UpdateInput) User {
	u.Username = in.Username
	u.Email = in.Email
	u.IsActive = in.IsActive == nil || *in.IsActive
	if u.Role.ID != in.RoleID {
		u.Role = RoleRef{ID: in.RoleID}
	}
	if e := in.Employee; e != nil {
		ref := EmployeeRef{FirstName: e.FirstName, LastName: e.LastName}
		if u.Employee != nil {
			ref.ID = u.Employee.ID
			ref.Department = u.Employee.Department
			ref.Position = u.Employee.Position
			ref.HireDate = u.Employee.HireDate
		}
		u.Employee = &ref
	}
	return u
}

func DeletePrompt(u User) string {
	return fmt.Sprintf("¿Estás seguro de que quieres eliminar al usuario %q?", u.Username)
}

func (f *Flow) Delete(ctx context.Context, id string, confirmer Confirmer) error {
	u, ok := f.find(id)
	if !ok {
		return ErrNotFound
	}
	if confirmer == nil || !confirmer.Confirm(ctx, DeletePrompt(u)) {
		return ErrNotConfirmed
	}
	if err := f.store.Delete(ctx, id); err != nil {
		f.notify(ctx, notifications.KindError, fmt.Sprintf("Error al eliminar el usuario %q. Por favor, intenta de nuevo.", u.Username))
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	f.mu.Lock()
	f.list = slices.DeleteFunc(f.list, func(x User) bool { return x.ID == id })
	f.mu.Unlock()
	f.notify(ctx, notifications.KindSuccess, fmt.Sprintf("Usuario %q eliminado exitosamente.", u.Username))
	return nil
}

func (f *Flow) find(id string) (User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.list {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
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

// Get reads one user fresh from the backend, leaving the local list untouched.
func (f *Flow) Get(ctx context.Context, id string) (User, error) {
	rec, err := f.store.Get(ctx, id)
	if backend.StatusOf(err) == http.StatusNotFound {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return rec, nil
}
