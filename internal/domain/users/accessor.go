package users

import (
	"context"
	"net/http"
	"net/url"

	"hrmconsole/internal/platform/backend"
)

const (
	resource = "users"
	basePath = "/usuarios"
)

type Accessor struct {
	client *backend.Client
}

func NewAccessor(client *backend.Client) *Accessor {
	return &Accessor{client: client}
}

func (a *Accessor) List(ctx context.Context) ([]User, error) {
	var wire []Wire
	if err := a.client.Get(ctx, resource, basePath, nil, &wire); err != nil {
		return nil, err
	}
	return FromWireList(wire), nil
}

func (a *Accessor) Get(ctx context.Context, id string) (User, error) {
	var w Wire
	if err := a.client.Get(ctx, resource, basePath+"/"+url.PathEscape(id), nil, &w); err != nil {
		return User{}, err
	}
	return FromWire(w), nil
}

func (a *Accessor) Create(ctx context.Context, in CreateInput) error {
	return a.client.Send(ctx, resource, http.MethodPost, basePath, createWire(in), nil)
}

// Update returns the backend's record when it sends one; ok is false otherwise.
func (a *Accessor) Update(ctx context.Context, id string, in UpdateInput) (User, bool, error) {
	var w *Wire
	if err := a.client.Send(ctx, resource, http.MethodPut, basePath+"/"+url.PathEscape(id), updateWire(in), &w); err != nil {
		return User{}, false, err
	}
	if w == nil {
		return User{}, false, nil
	}
	return FromWire(*w), true, nil
}

func (a *Accessor) Delete(ctx context.Context, id string) error {
	return a.client.Send(ctx, resource, http.MethodDelete, basePath+"/"+url.PathEscape(id), nil, nil)
}
