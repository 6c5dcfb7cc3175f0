package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
)

type Inbox interface {
	List(sessionID string) []notifications.Notification
}

type Sockets interface {
	Serve(w http.ResponseWriter, r *http.Request, sessionID string)
}

type Handler struct {
	Inbox   Inbox
	Sockets Sockets
}

func NewHandler(inbox Inbox, sockets Sockets) *Handler {
	return &Handler{Inbox: inbox, Sockets: sockets}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Get("/ws", h.handleSocket)
}

// handleList drains the session's queued toasts; each is returned once.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())
	list := h.Inbox.List(sess.ID)
	if list == nil {
		list = []notifications.Notification{}
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSession(r.Context())
	h.Sockets.Serve(w, r, sess.ID)
}
