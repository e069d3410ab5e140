package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds process-wide metrics that do not belong to a single feature.
type Metrics struct {
	NotificationsSent    *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	NotificationCircuit  prometheus.Gauge
	AuditEventsDropped   prometheus.Counter
	BadgeQueueDepth      prometheus.Gauge
}

// New creates and registers the platform metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_notifications_sent_total",
			Help: "Notifications delivered, by sink",
		}, []string{"sink"}),
		NotificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_notification_failures_total",
			Help: "Notification delivery failures, by sink",
		}, []string{"sink"}),
		NotificationCircuit: f.NewGauge(prometheus.GaugeOpts{
			Name: "lifeline_notification_circuit_open",
			Help: "1 while the primary notification sink circuit is open",
		}),
		AuditEventsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_audit_events_dropped_total",
			Help: "Audit events dropped because the publisher buffer was full",
		}),
		BadgeQueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "lifeline_badge_queue_depth",
			Help: "Pending asynchronous badge checks",
		}),
	}
}

func (m *Metrics) IncrementNotificationSent(sink string) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(sink).Inc()
}

func (m *Metrics) IncrementNotificationFailure(sink string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) SetNotificationCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.NotificationCircuit.Set(1)
		return
	}
	m.NotificationCircuit.Set(0)
}

func (m *Metrics) IncrementAuditDropped() {
	if m == nil {
		return
	}
	m.AuditEventsDropped.Inc()
}

func (m *Metrics) SetBadgeQueueDepth(n int) {
	if m == nil {
		return
	}
	m.BadgeQueueDepth.Set(float64(n))
}

// Handler exposes gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
