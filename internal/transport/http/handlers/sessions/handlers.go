package sessionshandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/sessions"
	"hrmconsole/internal/platform/listing"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
	"hrmconsole/internal/transport/http/shared"
)

type Monitor interface {
	Query(ctx context.Context, userID string, q sessions.Query) (listing.Page[sessions.Session], error)
	Summary(ctx context.Context) (sessions.Summary, error)
	Get(ctx context.Context, id string) (sessions.Session, error)
	Terminate(ctx context.Context, id string, confirmer sessions.Confirmer) error
	TerminateAll(ctx context.Context, userID string, confirmer sessions.Confirmer) error
	Export(ctx context.Context, q sessions.Query, w io.Writer) error
	Check(ctx context.Context) (bool, error)
}

type Handler struct {
	Monitor Monitor
	// Location anchors ?date= to the operator's calendar day.
	Location *time.Location
	Now      func() time.Time
}

func NewHandler(monitor Monitor) *Handler {
	return &Handler{Monitor: monitor, Location: time.Local, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/summary", h.handleSummary)
		r.Get("/export.pdf", h.handleExport)
		r.Get("/check", h.handleCheck)
		r.Post("/users/{userID}/terminate-all", h.handleTerminateAll)
		r.Get("/{sessionID}", h.handleGet)
		r.Post("/{sessionID}/terminate", h.handleTerminate)
	})
}

func (h *Handler) parseQuery(w http.ResponseWriter, r *http.Request) (sessions.Query, bool) {
	query := r.URL.Query()
	v := shared.NewValidator()
	status, err := sessions.ParseStatusFilter(query.Get("status"))
	v.Check("status", err)
	date, err := shared.ParseDateIn(query.Get("date"), h.Location)
	if err != nil {
		v.Add("date", "must be a valid date in YYYY-MM-DD format")
	}
	q := sessions.Query{
		Search: query.Get("search"),
		Status: status,
		Date:   date,
		Page:   shared.ParsePage(r, v),
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return sessions.Query{}, false
	}
	return q, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	page, err := h.Monitor.Query(r.Context(), r.URL.Query().Get("userId"), q)
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, page, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Monitor.Summary(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

// handleExport renders into a buffer first so a failure can still answer with JSON.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.Monitor.Export(r.Context(), q, &buf); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}

	filename := fmt.Sprintf("sesiones-%s.pdf", h.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("session report write failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	s, err := h.Monitor.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, s, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	confirm := shared.ConfirmationFrom(r)
	if err := h.Monitor.Terminate(r.Context(), chi.URLParam(r, "sessionID"), confirm); err != nil {
		shared.WriteError(w, r, err, confirm)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTerminateAll(w http.ResponseWriter, r *http.Request) {
	confirm := shared.ConfirmationFrom(r)
	if err := h.Monitor.TerminateAll(r.Context(), chi.URLParam(r, "userID"), confirm); err != nil {
		shared.WriteError(w, r, err, confirm)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	valid, err := h.Monitor.Check(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, map[string]bool{"valid": valid}, middleware.GetRequestID(r.Context()))
}
