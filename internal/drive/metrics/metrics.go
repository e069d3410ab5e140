package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks drive slot accounting.
type Metrics struct {
	RegistrationsTotal    prometheus.Counter
	RegistrationsRejected *prometheus.CounterVec
	Unregistrations       prometheus.Counter
	RegisterDuration      prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegistrationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_drive_registrations_total",
			Help: "Drive slots taken",
		}),
		RegistrationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_drive_registrations_rejected_total",
			Help: "Drive registrations refused, by reason",
		}, []string{"reason"}),
		Unregistrations: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_drive_unregistrations_total",
			Help: "Drive slots released",
		}),
		RegisterDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeline_drive_register_duration_seconds",
			Help:    "Duration of Register including the row lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementRegistration() {
	if m == nil {
		return
	}
	m.RegistrationsTotal.Inc()
}

func (m *Metrics) IncrementRejected(reason string) {
	if m == nil {
		return
	}
	m.RegistrationsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementUnregistration() {
	if m == nil {
		return
	}
	m.Unregistrations.Inc()
}

// ObserveRegister records the duration of a Register call started at start.
func (m *Metrics) ObserveRegister(start time.Time) {
	if m == nil {
		return
	}
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
