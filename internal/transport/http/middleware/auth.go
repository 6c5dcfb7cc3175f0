package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/platform/requestctx"
	"hrmconsole/internal/transport/http/api"
)

type ctxKey string

const ctxKeySession ctxKey = "console_session"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Session, error)
}

// Auth attaches the console session named by the request's token, if any. Requests
// without a usable token continue anonymously; RequireSession rejects them.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrSessionInvalid) && !errors.Is(err, auth.ErrSessionExpired) && !errors.Is(err, auth.ErrSessionNotFound) {
					slog.Warn("session lookup failed", "err", err, "requestId", GetRequestID(r.Context()))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// BearerToken reads the Authorization header. Websocket upgrades may carry the token
// as access_token because browsers cannot set headers on them.
func BearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

func WithSession(ctx context.Context, sess auth.Session) context.Context {
	ctx = requestctx.WithSession(ctx, sess.ID, sess.BackendToken)
	return context.WithValue(ctx, ctxKeySession, sess)
}

func GetSession(ctx context.Context) (auth.Session, bool) {
	sess, ok := ctx.Value(ctxKeySession).(auth.Session)
	return sess, ok
}

func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
