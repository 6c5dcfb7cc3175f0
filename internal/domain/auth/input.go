package auth

import (
	"strings"

	"hrmconsole/internal/platform/validation"
)

var loginMessages = validation.Messages{
	"login":             "Email o nombre de usuario es requerido",
	"password":          "La contraseña debe tener al menos 6 caracteres",
	"password.notblank": "La contraseña es requerida",
}

var registerMessages = validation.Messages{
	"firstName":         "El nombre es requerido",
	"lastName":          "El apellido es requerido",
	"email.required":    "El correo electrónico es requerido",
	"email.email":       "El correo electrónico no es válido",
	"password.required": "La contraseña es requerida",
	"password.min":      "La contraseña debe tener al menos 6 caracteres",
	"confirmPassword":   "Las contraseñas no coinciden",
	"roleId":            "Debes seleccionar un rol",
	"termsAccepted":     "Debes aceptar los términos y condiciones",
}

func (in LoginInput) Validate() error {
	return validation.Check(in, loginMessages)
}

func (in RegisterInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	return validation.Check(in, registerMessages)
}
