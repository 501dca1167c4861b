package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ticketdesk/ticketdesk-service/internal/domain"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	Registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	ticketsCreated  *prometheus.CounterVec
	notificationsOK prometheus.Counter
}

// NewMetrics registers collectors on a fresh registry together with the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ticketdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "http_errors_total",
			Help:      "Error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "tickets_created_total",
			Help:      "Tickets created by priority.",
		}, []string{"priority"}),
		notificationsOK: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ticketdesk",
			Name:      "notifications_created_total",
			Help:      "Notifications persisted.",
		}),
	}
	reg.MustRegister(
		m.requests, m.duration, m.errors, m.ticketsCreated, m.notificationsOK,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// TicketCreated counts a new ticket. Unknown priorities share one series.
func (m *Metrics) TicketCreated(priority domain.TicketPriority) {
	if m == nil {
		return
	}
	label := string(priority)
	if !priority.Valid() {
		label = "other"
	}
	m.ticketsCreated.WithLabelValues(label).Inc()
}

// NotificationCreated counts a persisted notification.
func (m *Metrics) NotificationCreated() {
	if m == nil {
		return
	}
	m.notificationsOK.Inc()
}
