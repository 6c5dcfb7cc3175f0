package authhandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
	"hrmconsole/internal/transport/http/shared"
)

type Service interface {
	Login(ctx context.Context, in auth.LoginInput) (auth.Session, string, error)
	Register(ctx context.Context, in auth.RegisterInput, ip, userAgent string) (auth.Session, string, error)
	Restore(ctx context.Context, sessionID string) (auth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// SessionCloser releases the per-session state held outside the session store.
type SessionCloser interface {
	Close(sessionID string)
}

type Handler struct {
	Service Service
	Closer  SessionCloser
}

func NewHandler(service Service, closer SessionCloser) *Handler {
	return &Handler{Service: service, Closer: closer}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/register", h.handleRegister)
		r.With(middleware.RequireSession).Get("/session", h.handleSession)
		r.Post("/logout", h.handleLogout)
	})
}

type sessionResponse struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      auth.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	in.IPAddress = shared.ClientIP(r)
	in.UserAgent = r.UserAgent()

	sess, token, err := h.Service.Login(r.Context(), in)
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	slog.Info("console login", "user", sess.User.Username, "session", sess.ID)
	api.Success(w, sessionResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: sess.User}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}

	sess, token, err := h.Service.Register(r.Context(), in, shared.ClientIP(r), r.UserAgent())
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	slog.Info("console registration", "user", sess.User.Username, "session", sess.ID)
	api.Created(w, sessionResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: sess.User}, middleware.GetRequestID(r.Context()))
}

// handleSession is the UI's on-load check. A session the backend no longer honours
// is cleared here and the UI drops its token on the 401.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	current, _ := middleware.GetSession(r.Context())
	sess, err := h.Service.Restore(r.Context(), current.ID)
	if err != nil {
		h.close(current.ID)
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, sessionResponse{ExpiresAt: sess.ExpiresAt, User: sess.User}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.Service.Logout(r.Context(), sess.ID); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	h.close(sess.ID)
	slog.Info("console logout", "user", sess.User.Username, "session", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) close(sessionID string) {
	if h.Closer != nil && sessionID != "" {
		h.Closer.Close(sessionID)
	}
}
