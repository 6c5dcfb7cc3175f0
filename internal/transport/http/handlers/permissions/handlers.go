package permissionshandler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/transport/http/api"
	"hrmconsole/internal/transport/http/middleware"
	"hrmconsole/internal/transport/http/shared"
)

// Catalog is the backend permission catalog. The console keeps no permission state of
// its own, so every call goes straight through.
type Catalog interface {
	List(ctx context.Context) ([]permissions.Permission, error)
	Get(ctx context.Context, id string) (permissions.Permission, error)
	ByCategory(ctx context.Context, category string) ([]permissions.Permission, error)
	Active(ctx context.Context) ([]permissions.Permission, error)
	ByCodes(ctx context.Context, codes []string) ([]permissions.Permission, error)
	Search(ctx context.Context, query string) ([]permissions.Permission, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, in permissions.Input) error
	Update(ctx context.Context, id string, in permissions.Input) error
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) error
}

type Handler struct {
	Catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{Catalog: catalog}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/permissions", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/categories", h.handleCategories)
		r.Get("/{permissionID}", h.handleGet)
		r.Put("/{permissionID}", h.handleUpdate)
		r.Patch("/{permissionID}/toggle-status", h.handleToggleStatus)
		r.Delete("/{permissionID}", h.handleDelete)
	})
}

// handleList picks the backend listing from the first filter present: codes, q,
// category, then active.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := shared.NewValidator()
	activeOnly := false
	if raw := query.Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		v.Check("active", err)
		activeOnly = parsed
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	var (
		list []permissions.Permission
		err  error
	)
	switch {
	case len(splitCodes(query["codes"])) > 0:
		list, err = h.Catalog.ByCodes(r.Context(), splitCodes(query["codes"]))
	case strings.TrimSpace(query.Get("q")) != "":
		list, err = h.Catalog.Search(r.Context(), strings.TrimSpace(query.Get("q")))
	case strings.TrimSpace(query.Get("category")) != "":
		list, err = h.Catalog.ByCategory(r.Context(), strings.TrimSpace(query.Get("category")))
	case activeOnly:
		list, err = h.Catalog.Active(r.Context())
	default:
		list, err = h.Catalog.List(r.Context())
	}
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.Categories(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	api.Success(w, categories, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "permissionID"))
	if err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in permissions.Input
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	if err := h.Catalog.Create(r.Context(), in); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in permissions.Input
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	if err := h.Catalog.Update(r.Context(), chi.URLParam(r, "permissionID"), in); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.ToggleStatus(r.Context(), chi.URLParam(r, "permissionID")); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), chi.URLParam(r, "permissionID")); err != nil {
		shared.WriteError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// splitCodes accepts both ?codes=A&codes=B and ?codes=A,B.
func splitCodes(values []string) []string {
	var out []string
	for _, v := range values {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				out = append(out, code)
			}
		}
	}
	return out
}
