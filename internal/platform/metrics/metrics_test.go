package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCountsRequests(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, http.StatusOK, 10*time.Millisecond)
	c.Record(http.MethodGet, http.StatusOK, 5*time.Millisecond)
	c.Record(http.MethodPost, http.StatusTooManyRequests, time.Millisecond)

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues(http.MethodGet, "200")); got != 2 {
		t.Fatalf("expected 2 GET 200 requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.rateLimited); got != 1 {
		t.Fatalf("expected 1 rate limited request, got %v", got)
	}
}

func TestObserveBackendOutcomes(t *testing.T) {
	c := New()
	c.ObserveBackend("roles", http.MethodGet, 200, time.Millisecond)
	c.ObserveBackend("roles", http.MethodGet, 0, time.Millisecond)
	c.ObserveBackend("roles", http.MethodDelete, 409, time.Millisecond)

	if got := testutil.ToFloat64(c.backendCalls.WithLabelValues("roles", http.MethodGet, "transport_error")); got != 1 {
		t.Fatalf("expected one transport error, got %v", got)
	}
	if got := testutil.ToFloat64(c.backendCalls.WithLabelValues("roles", http.MethodDelete, "client_error")); got != 1 {
		t.Fatalf("expected one client error, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.SocketOpened()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "hrm_console_notification_sockets 1") {
		t.Fatalf("expected socket gauge in output, got %s", rec.Body.String())
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(http.MethodGet, 200, time.Millisecond)
	c.ObserveBackend("roles", http.MethodGet, 200, time.Millisecond)
	c.SocketOpened()
}

func TestObserveJob(t *testing.T) {
	c := New()
	c.ObserveJob("session_sweep", "completed")
	c.ObserveJob("session_sweep", "failed")
	c.ObserveJob("session_sweep", "completed")

	if got := testutil.ToFloat64(c.jobRuns.WithLabelValues("session_sweep", "completed")); got != 2 {
		t.Fatalf("expected 2 completed sweeps, got %v", got)
	}

	var nilCollector *Collector
	nilCollector.ObserveJob("session_sweep", "failed")
}
