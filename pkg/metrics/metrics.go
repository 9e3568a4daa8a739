package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Business metrics
	LoginAttempts     *prometheus.CounterVec
	UsersRegistered   prometheus.Counter
	LeadsCreated      prometheus.Counter
	CallsStarted      prometheus.Counter
	ScriptsGenerated  prometheus.Counter
	PointsAwarded     prometheus.Counter
	ExportsCreated    *prometheus.CounterVec
	WebhookTests      *prometheus.CounterVec
	IntegrationChecks *prometheus.CounterVec
}

// New creates a new Metrics instance registered on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new Metrics instance registered on the
// given registry. Tests use isolated registries to avoid duplicate
// registration panics.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"method", "path"},
		),

		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // success, failed
		),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of users registered",
		}),
		LeadsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created",
		}),
		CallsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "calls_started_total",
			Help: "Total number of outbound calls started",
		}),
		ScriptsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "scripts_generated_total",
			Help: "Total number of AI sales scripts generated",
		}),
		PointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Total gamification points awarded",
		}),
		ExportsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exports_created_total",
				Help: "Total number of lead exports generated",
			},
			[]string{"format"}, // csv, excel
		),
		WebhookTests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_tests_total",
				Help: "Total number of webhook test deliveries",
			},
			[]string{"status"}, // success, failed
		),
		IntegrationChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "integration_checks_total",
				Help: "Total number of integration connectivity checks",
			},
			[]string{"integration", "status"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, not the raw URL

			if req.ContentLength > 0 {
				m.HTTPRequestSize.WithLabelValues(req.Method, path).Observe(float64(req.ContentLength))
			}

			err := next(c)

			status := c.Response().Status
			duration := time.Since(start).Seconds()

			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, strconv.Itoa(status)).Observe(duration)
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

// RecordLoginAttempt increments the login attempts counter
func (m *Metrics) RecordLoginAttempt(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	m.LoginAttempts.WithLabelValues(status).Inc()
}

// RecordUserRegistered increments the registrations counter
func (m *Metrics) RecordUserRegistered() {
	m.UsersRegistered.Inc()
}

// RecordLeadCreated increments the leads created counter
func (m *Metrics) RecordLeadCreated() {
	m.LeadsCreated.Inc()
}

// RecordCallStarted increments the calls started counter
func (m *Metrics) RecordCallStarted() {
	m.CallsStarted.Inc()
}

// RecordScriptGenerated increments the scripts generated counter
func (m *Metrics) RecordScriptGenerated() {
	m.ScriptsGenerated.Inc()
}

// RecordPointsAwarded adds awarded points to the counter
func (m *Metrics) RecordPointsAwarded(points int) {
	m.PointsAwarded.Add(float64(points))
}

// RecordExportCreated increments the exports counter per format
func (m *Metrics) RecordExportCreated(format string) {
	m.ExportsCreated.WithLabelValues(format).Inc()
}

// RecordWebhookTest increments the webhook test counter
func (m *Metrics) RecordWebhookTest(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	m.WebhookTests.WithLabelValues(status).Inc()
}

// RecordIntegrationCheck increments the connectivity check counter
func (m *Metrics) RecordIntegrationCheck(integration string, connected bool) {
	status := "failed"
	if connected {
		status = "success"
	}
	m.IntegrationChecks.WithLabelValues(integration, status).Inc()
}
