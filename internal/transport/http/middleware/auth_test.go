package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/platform/requestctx"
)

type fakeAuthenticator map[string]auth.Session

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (auth.Session, error) {
	sess, ok := f[token]
	if !ok {
		return auth.Session{}, auth.ErrSessionInvalid
	}
	return sess, nil
}

var consoleSessions = fakeAuthenticator{
	"good": {ID: "s1", BackendToken: "backend-abc", User: auth.User{ID: "7", Username: "admin"}},
}

func TestAuthMiddlewareSetsSession(t *testing.T) {
	handler := Auth(consoleSessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSession(r.Context())
		if !ok {
			t.Fatal("expected session in context")
		}
		if sess.User.Username != "admin" {
			t.Fatalf("unexpected session: %+v", sess)
		}
		if requestctx.SessionID(r.Context()) != "s1" || requestctx.BackendToken(r.Context()) != "backend-abc" {
			t.Fatal("expected session id and backend token on the request context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthMiddlewareIgnoresUnknownToken(t *testing.T) {
	handler := Auth(consoleSessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); ok {
			t.Fatal("did not expect session in context")
		}
	}))

	for _, header := range []string{"", "Bearer nope", "Basic good"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestBearerTokenFromWebsocketQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws?access_token=good", nil)
	if got := BearerToken(req); got != "" {
		t.Fatalf("plain requests must not read the query token, got %q", got)
	}
	req.Header.Set("Upgrade", "websocket")
	if got := BearerToken(req); got != "good" {
		t.Fatalf("expected query token on upgrade, got %q", got)
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil)
	req = req.WithContext(WithSession(req.Context(), consoleSessions["good"]))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through with session, got %d", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Fatal("expected request id in context")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "upstream-1" {
		t.Fatal("expected upstream request id to be kept")
	}
}
