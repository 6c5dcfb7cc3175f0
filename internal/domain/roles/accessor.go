package roles

import (
	"context"
	"net/http"
	"net/url"

	"hrmconsole/internal/platform/backend"
)

const (
	resource = "roles"
	basePath = "/roles"
)

type Accessor struct {
	client *backend.Client
}

func NewAccessor(client *backend.Client) *Accessor {
	return &Accessor{client: client}
}

func (a *Accessor) List(ctx context.Context) ([]Role, error) {
	var wire []Wire
	if err := a.client.Get(ctx, resource, basePath, nil, &wire); err != nil {
		return nil, err
	}
	return FromWireList(wire), nil
}

func (a *Accessor) Get(ctx context.Context, id string) (Role, error) {
	var w Wire
	if err := a.client.Get(ctx, resource, rolePath(id), nil, &w); err != nil {
		return Role{}, err
	}
	return FromWire(w), nil
}

// Create returns whatever the backend echoes back; callers reload the catalog to
// learn the assigned id.
func (a *Accessor) Create(ctx context.Context, payload WritePayload) (Role, error) {
	var w Wire
	if err := a.client.Send(ctx, resource, http.MethodPost, basePath, ToWire(payload), &w); err != nil {
		return Role{}, err
	}
	return FromWire(w), nil
}

func (a *Accessor) Update(ctx context.Context, id string, payload WritePayload) (Role, error) {
	var w Wire
	if err := a.client.Send(ctx, resource, http.MethodPut, rolePath(id), ToWire(payload), &w); err != nil {
		return Role{}, err
	}
	return FromWire(w), nil
}

func (a *Accessor) Delete(ctx context.Context, id string) error {
	return a.client.Send(ctx, resource, http.MethodDelete, rolePath(id), nil, nil)
}

func (a *Accessor) Permissions(ctx context.Context, id string) ([]string, error) {
	var codes []string
	if err := a.client.Get(ctx, resource, rolePath(id)+"/permisos", nil, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (a *Accessor) UpdatePermissions(ctx context.Context, id string, codes []string) error {
	if codes == nil {
		codes = []string{}
	}
	body := map[string][]string{"permisos": codes}
	return a.client.Send(ctx, resource, http.MethodPut, rolePath(id)+"/permisos", body, nil)
}

func rolePath(id string) string {
	return basePath + "/" + url.PathEscape(id)
}
