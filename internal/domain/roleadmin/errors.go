package roleadmin

import (
	"errors"
	"fmt"

	"hrmconsole/internal/domain/authz"
)

var (
	ErrRoleNotFound   = errors.New("role not found")
	ErrRoleInUse      = errors.New("role has assigned users")
	ErrNotConfirmed   = errors.New("deletion not confirmed")
	ErrNotEditing     = errors.New("no role editor is open")
	ErrSubmitInFlight = errors.New("a role submission is already in progress")
	ErrInvalidDraft   = errors.New("role draft is invalid")
)

// RoleInUseError blocks deleting a role that still has users. It matches ErrRoleInUse.
type RoleInUseError struct {
	Name      string
	UserCount int
}

func (e *RoleInUseError) Error() string {
	return fmt.Sprintf("Cannot delete role %q because it has %d assigned users.", e.Name, e.UserCount)
}

func (e *RoleInUseError) Is(target error) bool {
	return target == ErrRoleInUse
}

// ValidationError carries the field errors that stopped a submit. It matches
// ErrInvalidDraft.
type ValidationError struct {
	Fields []authz.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("role draft has %d invalid fields", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDraft
}
