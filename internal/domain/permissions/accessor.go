package permissions

import (
	"context"
	"net/http"
	"net/url"

	"hrmconsole/internal/platform/backend"
)

const (
	resource = "permissions"
	basePath = "/permisos"
)

// Accessor reads and writes the backend's permission catalog.
type Accessor struct {
	client *backend.Client
}

func NewAccessor(client *backend.Client) *Accessor {
	return &Accessor{client: client}
}

func (a *Accessor) List(ctx context.Context) ([]Permission, error) {
	return a.list(ctx, basePath, nil)
}

func (a *Accessor) Get(ctx context.Context, id string) (Permission, error) {
	var w Wire
	if err := a.client.Get(ctx, resource, basePath+"/"+url.PathEscape(id), nil, &w); err != nil {
		return Permission{}, err
	}
	return FromWire(w), nil
}

func (a *Accessor) ByCategory(ctx context.Context, category string) ([]Permission, error) {
	return a.list(ctx, basePath+"/categoria/"+url.PathEscape(category), nil)
}

func (a *Accessor) Active(ctx context.Context) ([]Permission, error) {
	return a.list(ctx, basePath+"/activos", nil)
}

func (a *Accessor) ByCodes(ctx context.Context, codes []string) ([]Permission, error) {
	return a.list(ctx, basePath+"/por-codigos", url.Values{"codes": codes})
}

func (a *Accessor) Search(ctx context.Context, query string) ([]Permission, error) {
	return a.list(ctx, basePath+"/buscar", url.Values{"q": {query}})
}

func (a *Accessor) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if err := a.client.Get(ctx, resource, basePath+"/categorias", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Accessor) Create(ctx context.Context, in Input) error {
	return a.client.Send(ctx, resource, http.MethodPost, basePath, ToWire(in), nil)
}

func (a *Accessor) Update(ctx context.Context, id string, in Input) error {
	return a.client.Send(ctx, resource, http.MethodPut, basePath+"/"+url.PathEscape(id), ToWire(in), nil)
}

func (a *Accessor) Delete(ctx context.Context, id string) error {
	return a.client.Send(ctx, resource, http.MethodDelete, basePath+"/"+url.PathEscape(id), nil, nil)
}

func (a *Accessor) ToggleStatus(ctx context.Context, id string) error {
	return a.client.Send(ctx, resource, http.MethodPatch, basePath+"/"+url.PathEscape(id)+"/toggle-status", nil, nil)
}

func (a *Accessor) list(ctx context.Context, path string, query url.Values) ([]Permission, error) {
	var wire []Wire
	if err := a.client.Get(ctx, resource, path, query, &wire); err != nil {
		return nil, err
	}
	return FromWireList(wire), nil
}
