package usershandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/users"
	"hrmconsole/internal/domain/workspace"
	"hrmconsole/internal/platform/listing"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
	"hrmconsole/internal/transport/http/shared"
)

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
	r.Route("/users", func(r chi.Router) {
		r.Post("/load", h.handleLoad)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{userID}", h.handleGet)
		r.Put("/{userID}", h.handleUpdate)
		r.Delete("/{userID}", h.handleDelete)
	})
}

func (h *Handler) flow(r *http.Request) *users.Flow {
	sess, _ := middleware.GetSession(r.Context())
	return h.Workspaces.For(sess.ID).Users
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	flow := h.flow(r)
	if err := flow.Load(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, flow.Query(users.Query{Page: 1}), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := shared.NewValidator()
	status, err := listing.ParseStatusFilter(query.Get("status"))
	v.Check("status", err)
	q := users.Query{
		Search: query.Get("search"),
		RoleID: query.Get("roleId"),
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

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in users.CreateInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	flow := h.flow(r)
	if err := flow.Create(r.Context(), in); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in users.UpdateInput
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	flow := h.flow(r)
	if err := flow.EnsureLoaded(r.Context()); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	updated, err := flow.Update(r.Context(), chi.URLParam(r, "userID"), in)
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
	if err := flow.Delete(r.Context(), chi.URLParam(r, "userID"), confirm); err != nil {
		shared.WriteError(w, r, err, confirm)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.flow(r).Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}
