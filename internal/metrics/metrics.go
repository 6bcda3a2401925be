package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notes"

// Metrics owns the process collectors. Every method is safe on a nil receiver so
// components can run without instrumentation in tests and CLI commands.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	notesCreated    *prometheus.CounterVec
	quotaRejections *prometheus.CounterVec
	loginAttempts   *prometheus.CounterVec
	planUpgrades    prometheus.Counter
	rateLimited     *prometheus.CounterVec
	corsRejects     prometheus.Counter
	workerMessages  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notes_created_total",
			Help:      "Notes created, by tenant plan.",
		}, []string{"plan"}),
		quotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rejections_total",
			Help:      "Note creations rejected by the plan limit.",
		}, []string{"plan"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts, by result.",
		}, []string{"result"}),
		planUpgrades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_upgrades_total",
			Help:      "Tenants upgraded from FREE to PRO.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limiter, by scope.",
		}, []string{"scope"}),
		corsRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cors_rejects_total",
			Help:      "Cross-origin requests from origins outside the allow-list.",
		}),
		workerMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_messages_total",
			Help:      "Queue messages handled by workers, by worker, type and result.",
		}, []string{"worker", "type", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.notesCreated,
		m.quotaRejections,
		m.loginAttempts,
		m.planUpgrades,
		m.rateLimited,
		m.corsRejects,
		m.workerMessages,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NewServer returns an HTTP server exposing /metrics on addr, for processes that have no
// API router of their own.
func (m *Metrics) NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func (m *Metrics) NoteCreated(plan string) {
	if m == nil {
		return
	}
	m.notesCreated.WithLabelValues(plan).Inc()
}

func (m *Metrics) QuotaRejected(plan string) {
	if m == nil {
		return
	}
	m.quotaRejections.WithLabelValues(plan).Inc()
}

func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) PlanUpgraded() {
	if m == nil {
		return
	}
	m.planUpgrades.Inc()
}

func (m *Metrics) RateLimited(scope string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(scope).Inc()
}

func (m *Metrics) CORSRejected() {
	if m == nil {
		return
	}
	m.corsRejects.Inc()
}

func (m *Metrics) WorkerMessage(worker, msgType, result string) {
	if m == nil {
		return
	}
	m.workerMessages.WithLabelValues(worker, msgType, result).Inc()
}
