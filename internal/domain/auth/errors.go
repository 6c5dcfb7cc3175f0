package auth

import (
	"errors"

	"hrmconsole/internal/platform/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("console session not found")
	ErrSessionExpired     = errors.New("console session expired")
	ErrSessionInvalid     = errors.New("console session no longer valid")
	ErrTokenRequired      = errors.New("backend token required")
	ErrInvalidInput       = validation.ErrInvalid
)
