package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medmind"

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics holds the collectors on a private registry so that tests can
// build as many instances as they like. A nil *Metrics records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	feedbackSubmitted *prometheus.CounterVec
	authEvents        *prometheus.CounterVec
	storeUp           prometheus.Gauge
	assistantReplies  *prometheus.CounterVec
	assistantErrors   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		feedbackSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_submitted_total",
			Help:      "Number of persisted feedback submissions",
		}, []string{"category"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Outcomes of registration, login and token verification",
		}, []string{"event", "outcome"}),
		storeUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "1 when the last record store ping succeeded",
		}),
		assistantReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_replies_total",
			Help:      "Symptom checker replies by conversation stage",
		}, []string{"stage"}),
		assistantErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_upstream_errors_total",
			Help:      "Failed language model calls by operation",
		}, []string{"op"}),
	}

	m.registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.feedbackSubmitted,
		m.authEvents,
		m.storeUp,
		m.assistantReplies,
		m.assistantErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestDuration.With(labels).Observe(duration.Seconds())
}

func (m *Metrics) FeedbackSubmitted(category string) {
	if m == nil {
		return
	}
	m.feedbackSubmitted.With(prometheus.Labels{"category": category}).Inc()
}

// AuthEvent records event ("register", "login", "verify") with outcome
// ("success", "conflict", "invalid", "error").
func (m *Metrics) AuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.With(prometheus.Labels{"event": event, "outcome": outcome}).Inc()
}

func (m *Metrics) StoreUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.storeUp.Set(1)
		return
	}
	m.storeUp.Set(0)
}

func (m *Metrics) AssistantReply(stage string) {
	if m == nil {
		return
	}
	m.assistantReplies.With(prometheus.Labels{"stage": stage}).Inc()
}

// AssistantUpstreamError counts a failed model call; op is "detect",
// "assess" or "translate".
func (m *Metrics) AssistantUpstreamError(op string) {
	if m == nil {
		return
	}
	m.assistantErrors.With(prometheus.Labels{"op": op}).Inc()
}
