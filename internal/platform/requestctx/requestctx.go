package requestctx

import "context"

type ctxKey string

const (
	requestIDKey    ctxKey = "request_id"
	sessionIDKey    ctxKey = "console_session_id"
	backendTokenKey ctxKey = "backend_token"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithSession tags the context with the console session that owns the request and
// the backend bearer token that session holds.
func WithSession(ctx context.Context, sessionID, backendToken string) context.Context {
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return context.WithValue(ctx, backendTokenKey, backendToken)
}

func SessionID(ctx context.Context) string {
	if value, ok := ctx.Value(sessionIDKey).(string); ok {
		return value
	}
	return ""
}

func BackendToken(ctx context.Context) string {
	if value, ok := ctx.Value(backendTokenKey).(string); ok {
		return value
	}
	return ""
}
