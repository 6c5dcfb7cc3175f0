package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/domain/employees"
	"hrmconsole/internal/domain/roleadmin"
	"hrmconsole/internal/domain/sessions"
	"hrmconsole/internal/domain/users"
	"hrmconsole/internal/platform/backend"
	"hrmconsole/internal/platform/validation"
	"hrmconsole/internal/transport/http/api"
)

// WriteError maps a flow error to its HTTP response. confirm may be nil; when set and
// the error is a missing confirmation, its prompt is returned for the UI to show.
func WriteError(w http.ResponseWriter, r *http.Request, err error, confirm *Confirmation) {
	reqID := requestID(r)

	var invalid *validation.Error
	var draft *roleadmin.ValidationError
	var inUse *roleadmin.RoleInUseError
	var upstream *backend.Error

	switch {
	case errors.As(err, &invalid):
		FailValidation(w, reqID, invalid.Issues)
	case errors.As(err, &draft):
		FailValidation(w, reqID, draft.Fields)
	case errors.As(err, &inUse):
		api.FailWithDetails(w, http.StatusConflict, "role_in_use", inUse.Error(),
			map[string]any{"role": inUse.Name, "userCount": inUse.UserCount}, reqID)
	case errors.Is(err, roleadmin.ErrNotConfirmed), errors.Is(err, users.ErrNotConfirmed),
		errors.Is(err, employees.ErrNotConfirmed), errors.Is(err, sessions.ErrNotConfirmed):
		var details any
		if confirm != nil && confirm.Prompt != "" {
			details = map[string]string{"prompt": confirm.Prompt}
		}
		api.FailWithDetails(w, http.StatusPreconditionRequired, "confirmation_required", "repeat the request with confirm=true", details, reqID)
	case errors.Is(err, roleadmin.ErrRoleNotFound), errors.Is(err, users.ErrNotFound),
		errors.Is(err, employees.ErrNotFound), errors.Is(err, sessions.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, roleadmin.ErrSubmitInFlight), errors.Is(err, users.ErrSubmitInFlight),
		errors.Is(err, employees.ErrSubmitInFlight):
		api.Fail(w, http.StatusConflict, "submit_in_flight", err.Error(), reqID)
	case errors.Is(err, roleadmin.ErrNotEditing):
		api.Fail(w, http.StatusConflict, "not_editing", err.Error(), reqID)
	case errors.Is(err, sessions.ErrNotActive):
		api.Fail(w, http.StatusConflict, "session_not_active", err.Error(), reqID)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "Credenciales inválidas", reqID)
	case errors.Is(err, auth.ErrSessionInvalid), errors.Is(err, auth.ErrSessionExpired), errors.Is(err, auth.ErrSessionNotFound):
		api.Fail(w, http.StatusUnauthorized, "session_invalid", err.Error(), reqID)
	case errors.As(err, &upstream):
		status := upstream.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		api.Fail(w, status, "backend_error", upstream.Message, reqID)
	case errors.Is(err, backend.ErrUnavailable):
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "the HR backend is unavailable", reqID)
	default:
		slog.Error("unhandled console error", "path", r.URL.Path, "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected server error", reqID)
	}
}
