package sessions

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hrmconsole/internal/platform/backend"
)

const (
	resource = "sessions"
	basePath = "/sesiones"

	activeAnswer = "Session is active"
)

type Accessor struct {
	client *backend.Client
	now    func() time.Time
}

func NewAccessor(client *backend.Client) *Accessor {
	return &Accessor{client: client, now: time.Now}
}

func (a *Accessor) List(ctx context.Context) ([]Session, error) {
	var wire []Wire
	if err := a.client.Get(ctx, resource, basePath, nil, &wire); err != nil {
		return nil, err
	}
	return FromWireList(wire, a.now()), nil
}

func (a *Accessor) Get(ctx context.Context, id string) (Session, error) {
	var w Wire
	if err := a.client.Get(ctx, resource, basePath+"/"+url.PathEscape(id), nil, &w); err != nil {
		return Session{}, err
	}
	return FromWire(w, a.now()), nil
}

func (a *Accessor) ByUser(ctx context.Context, userID string) ([]Session, error) {
	var wire []Wire
	if err := a.client.Get(ctx, resource, basePath+"/usuario/"+url.PathEscape(userID), nil, &wire); err != nil {
		return nil, err
	}
	return FromWireList(wire, a.now()), nil
}

// Terminate closes one session, stamping its end at the given instant.
func (a *Accessor) Terminate(ctx context.Context, id string, at time.Time) error {
	body := closeWire{Activa: false, FechaFin: at.UTC().Format(time.RFC3339Nano)}
	return a.client.Send(ctx, resource, http.MethodPut, basePath+"/"+url.PathEscape(id), body, nil)
}

func (a *Accessor) TerminateAll(ctx context.Context, userID string) error {
	return a.client.Send(ctx, resource, http.MethodPut, basePath+"/usuario/"+url.PathEscape(userID)+"/cerrar-todas", nil, nil)
}

// Check asks whether the backend still considers the token's session active.
func (a *Accessor) Check(ctx context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	var answer string
	if err := a.client.Get(ctx, resource, basePath+"/check", url.Values{"token": {token}}, &answer); err != nil {
		return false, err
	}
	return answer == activeAnswer, nil
}
