package employees

import (
	"context"
	"net/http"
	"net/url"

	"hrmconsole/internal/platform/backend"
)

const (
	resource = "employees"
	basePath = "/empleados"
)

type Accessor struct {
	client *backend.Client
}

func NewAccessor(client *backend.Client) *Accessor {
	return &Accessor{client: client}
}

func (a *Accessor) List(ctx context.Context) ([]Employee, error) {
	var wire []Wire
	if err := a.client.Get(ctx, resource, basePath, nil, &wire); err != nil {
		return nil, err
	}
	return FromWireList(wire), nil
}

func (a *Accessor) Get(ctx context.Context, id string) (Employee, error) {
	var w Wire
	if err := a.client.Get(ctx, resource, basePath+"/"+url.PathEscape(id), nil, &w); err != nil {
		return Employee{}, err
	}
	return FromWire(w), nil
}

func (a *Accessor) Create(ctx context.Context, in Input) (Employee, error) {
	var w Wire
	if err := a.client.Send(ctx, resource, http.MethodPost, basePath, ToWire(in), &w); err != nil {
		return Employee{}, err
	}
	return FromWire(w), nil
}

func (a *Accessor) Update(ctx context.Context, id string, in Input) (Employee, error) {
	var w Wire
	if err := a.client.Send(ctx, resource, http.MethodPut, basePath+"/"+url.PathEscape(id), ToWire(in), &w); err != nil {
		return Employee{}, err
	}
	return FromWire(w), nil
}

func (a *Accessor) Delete(ctx context.Context, id string) error {
	return a.client.Send(ctx, resource, http.MethodDelete, basePath+"/"+url.PathEscape(id), nil, nil)
}

func (a *Accessor) Stats(ctx context.Context) (Stats, error) {
	var w statsWire
	if err := a.client.Get(ctx, resource, basePath+"/stats", nil, &w); err != nil {
		return Stats{}, err
	}
	return statsFromWire(w), nil
}
