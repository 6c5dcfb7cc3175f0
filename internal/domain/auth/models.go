package auth

import (
	"time"

	"hrmconsole/internal/platform/backend"
)

type RoleRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is the authenticated account as the console keeps it for a session.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	LastLogin time.Time `json:"lastLogin,omitzero"`
	Role      RoleRef   `json:"role"`
}

// Session is a console session: the user record plus the backend bearer token it
// was issued. The token never leaves the server.
type Session struct {
	ID              string    `json:"id"`
	User            User      `json:"user"`
	BackendToken    string    `json:"-"`
	IPAddress       string    `json:"ipAddress,omitempty"`
	UserAgent       string    `json:"userAgent,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	LastValidatedAt time.Time `json:"lastValidatedAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

type LoginInput struct {
	Login     string `json:"login" validate:"notblank"`
	Password  string `json:"password" validate:"notblank,min=6"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" validate:"notblank"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	RoleID          int64  `json:"roleId" validate:"gt=0"`
	TermsAccepted   bool   `json:"termsAccepted" validate:"eq=true"`
}

type roleWire struct {
	ID          int64  `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

type userWire struct {
	ID            int64    `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Activo        *bool    `json:"activo,omitempty"`
	FechaCreacion string   `json:"fechaCreacion,omitempty"`
	UltimoLogin   string   `json:"ultimoLogin,omitempty"`
	Rol           roleWire `json:"rol"`
}

// sessionWire is the backend's answer to a login.
type sessionWire struct {
	ID              int64    `json:"id"`
	Token           string   `json:"token"`
	FechaInicio     string   `json:"fechaInicio"`
	FechaExpiracion string   `json:"fechaExpiracion"`
	Activa          bool     `json:"activa"`
	Usuario         userWire `json:"usuario"`
}

// authWire is the backend's answer to a registration.
type authWire struct {
	Token   string   `json:"token"`
	Usuario userWire `json:"usuario"`
}

type loginWire struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}

type registerWire struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Activo   bool   `json:"activo"`
	RolID    int64  `json:"rolId"`
}

// userFromWire treats a missing activo as active; login responses omit it.
func userFromWire(w userWire) User {
	active := true
	if w.Activo != nil {
		active = *w.Activo
	}
	return User{
		ID:        backend.FormatID(w.ID),
		Username:  w.Username,
		Email:     w.Email,
		IsActive:  active,
		CreatedAt: backend.ParseTime(w.FechaCreacion),
		LastLogin: backend.ParseTime(w.UltimoLogin),
		Role: RoleRef{
			ID:          w.Rol.ID,
			Name:        w.Rol.Nombre,
			Description: w.Rol.Descripcion,
		},
	}
}
