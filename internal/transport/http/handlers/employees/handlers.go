package employeeshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/employees"
	"hrmconsole/internal/domain/workspace"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
	"hrmconsole/internal/transport/http/shared"
)

const maxPageSize = 100

type Workspaces interface {
	For(sessionID string) *workspace.Workspace
}

type Handler struct {
	Workspaces Workspaces
}

func NewHandler(workspaces Workspaces) *Handler {
	return &Handler{Workspaces: workspaces}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Post("/load", h.handleLoad)
		r.Get("/", h.handleList)
		r.Get("/stats", h.handleStats)
		r.Post("/", h.handleCreate)
		r.Get("/{employeeID}", h.handleGet)
		r.Put("/{employeeID}", h.handleUpdate)
		r.Delete("/{employeeID}", h.handleDelete)
	})
}

func (h *Handler) flow(r *http.Request) *employees.Flow {
	sess, _ := middleware.GetSession(r.Context())
	return h.Workspaces.For(sess.ID).Employees
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.Load(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, flow.Employees(), middleware.GetRequestID(r.Context()))
}

// handleList returns the whole directory unless ?pageSize= is given.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := shared.NewValidator()
	status := strings.ToUpper(strings.TrimSpace(query.Get("status")))
	switch status {
	case "", "ALL", employees.StatusActive, employees.StatusInactive:
	default:
		v.Add("status", "must be all, ACTIVO or INACTIVO")
	}
	q := employees.Query{
		Search: query.Get("search"),
		Status: status,
		Page:   shared.ParsePage(r, v),
	}
	pageSize := shared.ParsePageSize(r, v, 0, maxPageSize)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, flow.Query(q, pageSize), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	// The local fallback needs the directory; a failed load still lets the backend answer.
	_ = flow.EnsureLoaded(r.Context())
	api.Success(w, flow.Stats(r.Context()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in employees.Input
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	created, err := h.flow(r).Create(r.Context(), in)
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in employees.Input
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	updated, err := h.flow(r).Update(r.Context(), chi.URLParam(r, "employeeID"), in)
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	confirm := shared.ConfirmationFrom(r)
	if err := flow.Delete(r.Context(), chi.URLParam(r, "employeeID"), confirm); err != nil {
		shared.WriteError(w, r, err, confirm)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.flow(r).Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}
