package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hrmconsole/internal/platform/requestctx"
)

// Notifier is what the administration flows use to surface toasts.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, message string)
}

type Service struct {
	store     StoreAPI
	Publisher Publisher
	now       func() time.Time
}

func New(store StoreAPI, publisher Publisher) *Service {
	return &Service{store: store, Publisher: publisher, now: time.Now}
}

// Notify addresses the toast to the console session on ctx. Live sockets get it
// immediately; otherwise it waits in the store until the UI polls.
func (s *Service) Notify(ctx context.Context, kind Kind, message string) {
	sessionID := requestctx.SessionID(ctx)
	if sessionID == "" {
		slog.Warn("notification without console session dropped", "type", kind, "message", message)
		return
	}
	s.Create(sessionID, kind, message, DefaultDuration)
}

func (s *Service) Create(sessionID string, kind Kind, message string, duration time.Duration) Notification {
	n := Notification{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Kind:       kind,
		Message:    message,
		DurationMS: duration.Milliseconds(),
		CreatedAt:  s.now().UTC(),
	}
	if s.Publisher != nil && s.Publisher.Publish(n) {
		return n
	}
	s.store.Push(n)
	return n
}

// List drains the session's pending notifications.
func (s *Service) List(sessionID string) []Notification {
	return s.store.Drain(sessionID)
}

func (s *Service) Forget(sessionID string) {
	s.store.Forget(sessionID)
}
