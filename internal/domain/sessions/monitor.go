package sessions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/platform/backend"
	"hrmconsole/internal/platform/listing"
	"hrmconsole/internal/platform/requestctx"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrNotConfirmed = errors.New("termination not confirmed")
	ErrNotActive    = errors.New("session is not active")
)

type Store interface {
	List(ctx context.Context) ([]Session, error)
	Get(ctx context.Context, id string) (Session, error)
	ByUser(ctx context.Context, userID string) ([]Session, error)
	Terminate(ctx context.Context, id string, at time.Time) error
	TerminateAll(ctx context.Context, userID string) error
	Check(ctx context.Context, token string) (bool, error)
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Monitor reads sessions fresh from the backend on every call; it holds no cache.
type Monitor struct {
	store     Store
	notifier  notifications.Notifier
	pageSize  int
	exportDir string
	now       func() time.Time
}

func NewMonitor(store Store, notifier notifications.Notifier, pageSize int, exportDir string) *Monitor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Monitor{store: store, notifier: notifier, pageSize: pageSize, exportDir: exportDir, now: time.Now}
}

func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Monitor) PageSize() int {
	return m.pageSize
}

func (m *Monitor) all(ctx context.Context, userID string) ([]Session, error) {
	var (
		list []Session
		err  error
	)
	if userID != "" {
		list, err = m.store.ByUser(ctx, userID)
	} else {
		list, err = m.store.List(ctx)
	}
	if err != nil {
		m.notify(ctx, notifications.KindError, "Error al obtener las sesiones")
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return list, nil
}

// Query lists sessions, optionally for one user, then filters and paginates.
func (m *Monitor) Query(ctx context.Context, userID string, q Query) (listing.Page[Session], error) {
	list, err := m.all(ctx, userID)
	if err != nil {
		return listing.Page[Session]{}, err
	}
	return Apply(list, q, m.pageSize), nil
}

func (m *Monitor) Summary(ctx context.Context) (Summary, error) {
	list, err := m.all(ctx, "")
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list), nil
}

func (m *Monitor) Get(ctx context.Context, id string) (Session, error) {
	s, err := m.store.Get(ctx, id)
	if backend.StatusOf(err) == http.StatusNotFound {
		return Session{}, ErrNotFound
	}
	return s, err
}

// Check asks the backend whether the caller's own backend session is still valid.
func (m *Monitor) Check(ctx context.Context) (bool, error) {
	token := requestctx.BackendToken(ctx)
	if token == "" {
		return false, nil
	}
	valid, err := m.store.Check(ctx, token)
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return valid, nil
}

func TerminatePrompt(s Session) string {
	return fmt.Sprintf("¿Terminar la sesión de %q iniciada desde %s?", s.UserName, s.IPAddress)
}

func (m *Monitor) Terminate(ctx context.Context, id string, confirmer Confirmer) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.Status != StatusActive {
		return ErrNotActive
	}
	if confirmer == nil || !confirmer.Confirm(ctx, TerminatePrompt(s)) {
		return ErrNotConfirmed
	}
	if err := m.store.Terminate(ctx, id, m.now()); err != nil {
		m.notify(ctx, notifications.KindError, "Error al cerrar la sesión")
		return fmt.Errorf("terminate session %s: %w", id, err)
	}
	slog.Info("backend session terminated", "session_id", id, "user", s.UserName)
	m.notify(ctx, notifications.KindSuccess, "Sesión cerrada exitosamente.")
	return nil
}

func (m *Monitor) TerminateAll(ctx context.Context, userID string, confirmer Confirmer) error {
	if confirmer == nil || !confirmer.Confirm(ctx, "¿Cerrar todas las sesiones del usuario?") {
		return ErrNotConfirmed
	}
	if err := m.store.TerminateAll(ctx, userID); err != nil {
		m.notify(ctx, notifications.KindError, "Error al cerrar todas las sesiones del usuario")
		return fmt.Errorf("terminate sessions of user %s: %w", userID, err)
	}
	slog.Info("backend sessions terminated", "user_id", userID)
	m.notify(ctx, notifications.KindSuccess, "Todas las sesiones del usuario fueron cerradas.")
	return nil
}

// Export writes the filtered sessions (every page) as a PDF, archiving a copy when an
// export directory is configured.
func (m *Monitor) Export(ctx context.Context, q Query, w io.Writer) error {
	list, err := m.all(ctx, "")
	if err != nil {
		return err
	}
	filtered := Filter(list, q)
	at := m.now()
	if m.exportDir != "" {
		if path, err := ArchiveReport(m.exportDir, filtered, at); err != nil {
			slog.Warn("session report not archived", "dir", m.exportDir, "err", err)
		} else {
			slog.Info("session report archived", "path", path, "sessions", len(filtered))
		}
	}
	return WriteReport(w, filtered, at)
}

func (m *Monitor) notify(ctx context.Context, kind notifications.Kind, message string) {
	if m.notifier != nil {
		m.notifier.Notify(ctx, kind, message)
	}
}
