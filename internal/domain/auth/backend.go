package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hrmconsole/internal/platform/backend"
)

const (
	resource = "auth"
	basePath = "/auth"
)

// Issued is what the backend hands out on login or registration.
type Issued struct {
	User      User
	Token     string
	StartedAt time.Time
	ExpiresAt time.Time
}

// Accessor talks to the backend's /auth endpoints.
type Accessor struct {
	client *backend.Client
	now    func() time.Time
}

func NewAccessor(client *backend.Client) *Accessor {
	return &Accessor{client: client, now: time.Now}
}

// Login forwards username-or-email and password; the backend decides which it is.
func (a *Accessor) Login(ctx context.Context, in LoginInput) (Issued, error) {
	if err := in.Validate(); err != nil {
		return Issued{}, err
	}
	body := loginWire{
		Username:  strings.TrimSpace(in.Login),
		Password:  in.Password,
		IP:        in.IPAddress,
		UserAgent: in.UserAgent,
	}
	var out sessionWire
	if err := a.client.Send(ctx, resource, http.MethodPost, basePath+"/login", body, &out); err != nil {
		if status := backend.StatusOf(err); status == http.StatusUnauthorized || status == http.StatusBadRequest {
			return Issued{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return Issued{}, err
	}
	if out.Token == "" {
		return Issued{}, errors.New("login response carried no token")
	}
	return Issued{
		User:      userFromWire(out.Usuario),
		Token:     out.Token,
		StartedAt: backend.ParseTime(out.FechaInicio),
		ExpiresAt: backend.ParseTime(out.FechaExpiracion),
	}, nil
}

// Register creates an active account. The backend wants a unique username, so one is
// derived from the email's local part and the current unix milliseconds.
func (a *Accessor) Register(ctx context.Context, in RegisterInput) (Issued, error) {
	if err := in.Validate(); err != nil {
		return Issued{}, err
	}
	email := strings.TrimSpace(in.Email)
	body := registerWire{
		Username: RegistrationUsername(email, a.now()),
		Password: in.Password,
		Email:    email,
		Activo:   true,
		RolID:    in.RoleID,
	}
	var out authWire
	if err := a.client.Send(ctx, resource, http.MethodPost, basePath+"/register", body, &out); err != nil {
		return Issued{}, err
	}
	return Issued{User: userFromWire(out.Usuario), Token: out.Token}, nil
}

func RegistrationUsername(email string, at time.Time) string {
	local, _, _ := strings.Cut(email, "@")
	return fmt.Sprintf("%s%d", local, at.UnixMilli())
}

// Validate asks the backend whether token is still a live session. A blank token is
// simply invalid.
func (a *Accessor) Validate(ctx context.Context, token string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, nil
	}
	var valid bool
	req := backend.Request{
		Resource: resource,
		Method:   http.MethodGet,
		Path:     basePath + "/validate",
		Query:    url.Values{"token": {token}},
		Token:    token,
	}
	if err := a.client.Do(ctx, req, &valid); err != nil {
		return false, err
	}
	return valid, nil
}

func (a *Accessor) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenRequired
	}
	req := backend.Request{
		Resource: resource,
		Method:   http.MethodPost,
		Path:     basePath + "/logout",
		Body:     map[string]string{"token": token},
		Token:    token,
	}
	return a.client.Do(ctx, req, nil)
}
