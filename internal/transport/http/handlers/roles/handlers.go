package roleshandler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/roleadmin"
	"hrmconsole/internal/domain/workspace"
	"hrmconsole/internal/platform/listing"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
	"hrmconsole/internal/transport/http/shared"
)

type Workspaces interface {
	For(sessionID string) *workspace.Workspace
}

// Assignments reads and replaces a role's permission codes directly, outside the editor.
type Assignments interface {
	Permissions(ctx context.Context, id string) ([]string, error)
	UpdatePermissions(ctx context.Context, id string, codes []string) error
}

type Handler struct {
	Workspaces  Workspaces
	Assignments Assignments
}

func NewHandler(workspaces Workspaces, assignments Assignments) *Handler {
	return &Handler{Workspaces: workspaces, Assignments: assignments}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Post("/load", h.handleLoad)
		r.Get("/", h.handleList)
		r.Get("/summary", h.handleSummary)
		r.Route("/editor", func(r chi.Router) {
			r.Post("/", h.handleOpenCreate)
			r.Get("/", h.handleEditor)
			r.Patch("/", h.handleUpdateFields)
			r.Delete("/", h.handleCancel)
			r.Post("/permissions/select-all", h.handleSelectAll)
			r.Post("/permissions/clear", h.handleClear)
			r.Post("/permissions/{code}/toggle", h.handleTogglePermission)
			r.Post("/categories/{category}/toggle", h.handleToggleCategory)
			r.Post("/submit", h.handleSubmit)
		})
		r.Post("/{roleID}/editor", h.handleOpenEdit)
		r.Get("/{roleID}/permissions", h.handleAssigned)
		r.Put("/{roleID}/permissions", h.handleAssign)
		r.Delete("/{roleID}", h.handleDelete)
	})
}

func (h *Handler) flow(r *http.Request) *roleadmin.Flow {
	sess, _ := middleware.GetSession(r.Context())
	return h.Workspaces.For(sess.ID).Roles
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.LoadCatalogs(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, flow.Summary(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	status, err := listing.ParseStatusFilter(r.URL.Query().Get("status"))
	v.Check("status", err)
	q := roleadmin.Query{
		Search: r.URL.Query().Get("search"),
		Status: status,
		Page:   shared.ParsePage(r, v),
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, flow.Query(q), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, flow.Summary(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	confirm := shared.ConfirmationFrom(r)
	if err := flow.Delete(r.Context(), chi.URLParam(r, "roleID"), confirm); err != nil {
		shared.WriteError(w, r, err, confirm)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAssigned(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Assignments.Permissions(r.Context(), chi.URLParam(r, "roleID"))
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	api.Success(w, codes, middleware.GetRequestID(r.Context()))
}

type assignRequest struct {
	Permissions []string `json:"permissions"`
}

// handleAssign replaces the role's codes and refreshes the session's role list.
func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var in assignRequest
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	roleID := chi.URLParam(r, "roleID")
	if err := h.Assignments.UpdatePermissions(r.Context(), roleID, in.Permissions); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	if err := h.flow(r).LoadCatalogs(r.Context()); err != nil {
		slog.Warn("role list not refreshed after permission update", "role_id", roleID, "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleOpenCreate(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	h.respond(w, r)(flow.OpenCreate())
}

func (h *Handler) handleOpenEdit(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	h.respond(w, r)(flow.OpenEdit(chi.URLParam(r, "roleID")))
}

func (h *Handler) handleEditor(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.flow(r).Editor())
}

func (h *Handler) handleUpdateFields(w http.ResponseWriter, r *http.Request) {
	var update roleadmin.FieldsUpdate
	if !shared.DecodeJSON(w, r, &update) {
		return
	}
	h.respond(w, r)(h.flow(r).UpdateFields(update))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.flow(r).Cancel(); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.flow(r).SelectAll())
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.flow(r).ClearAll())
}

func (h *Handler) handleTogglePermission(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.flow(r).TogglePermission(pathParam(r, "code")))
}

func (h *Handler) handleToggleCategory(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.flow(r).ToggleCategory(pathParam(r, "category")))
}

// handleSubmit answers 400 with the draft's field errors, leaving the editor open.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	saved, err := h.flow(r).Submit(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) func(roleadmin.EditorView, error) {
	return func(view roleadmin.EditorView, err error) {
		if err != nil {
			shared.WriteError(w, r, err, nil)
			return
		}
		api.Success(w, view, middleware.GetRequestID(r.Context()))
	}
}

// pathParam unescapes a segment such as "Sin%20categor%C3%ADa".
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}
