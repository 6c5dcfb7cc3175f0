package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	activeSockets   prometheus.Gauge
	jobRuns         *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrm_console_http_requests_total",
			Help: "Console API requests by method and status code.",
		}, []string{"method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrm_console_http_request_duration_seconds",
			Help:    "Console API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "hrm_console_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		backendCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrm_console_backend_calls_total",
			Help: "Calls to the HR backend by resource, method and outcome.",
		}, []string{"resource", "method", "outcome"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrm_console_backend_call_duration_seconds",
			Help:    "HR backend call latency by resource.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		activeSockets: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hrm_console_notification_sockets",
			Help: "Open notification websocket connections.",
		}),
		jobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hrm_console_job_runs_total",
			Help: "Background job runs by job type and status.",
		}, []string{"job", "status"}),
	}
}

func (c *Collector) Record(method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

// ObserveBackend records one backend round trip. status 0 means the transport failed.
func (c *Collector) ObserveBackend(resource, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.backendCalls.WithLabelValues(resource, method, outcome(status)).Inc()
	c.backendDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

func (c *Collector) SocketOpened() {
	if c != nil {
		c.activeSockets.Inc()
	}
}

func (c *Collector) SocketClosed() {
	if c != nil {
		c.activeSockets.Dec()
	}
}

func (c *Collector) ObserveJob(jobType, status string) {
	if c != nil {
		c.jobRuns.WithLabelValues(jobType, status).Inc()
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func outcome(status int) string {
	switch {
	case status == 0:
		return "transport_error"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return "ok"
	}
}
