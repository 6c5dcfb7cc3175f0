package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type recordedRequest struct {
	method string
	status int
}

type requestRecorder struct{ got []recordedRequest }

func (r *requestRecorder) Record(method string, status int, _ time.Duration) {
	r.got = append(r.got, recordedRequest{method, status})
}

func TestLoggerRecordsStatus(t *testing.T) {
	metrics := &requestRecorder{}
	handler := Logger(metrics)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/roles/1", nil))
	if len(metrics.got) != 1 || metrics.got[0] != (recordedRequest{http.MethodDelete, http.StatusConflict}) {
		t.Fatalf("unexpected observations: %+v", metrics.got)
	}
}

func TestRecovererReturnsEnvelope(t *testing.T) {
	handler := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"internal_error"`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(noContent))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil))
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatal("expected api responses to be marked no-store")
	}
	if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "connect-src 'self' ws: wss:") {
		t.Fatal("expected websocket connections to be allowed")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Header().Get("Cache-Control") != "" {
		t.Fatal("static assets keep default caching")
	}
}

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/roles/editor/submit", strings.NewReader(strings.Repeat("x", 32))))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected oversized body to be rejected, got %d", rec.Code)
	}
}
