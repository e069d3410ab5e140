package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers recorded donations and the rewards they earn.
type Metrics struct {
	DonationsRecorded  *prometheus.CounterVec
	DonationsCancelled prometheus.Counter
	UnitsCollected     *prometheus.CounterVec
	PointsAwarded      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DonationsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_donations_recorded_total",
			Help: "Donations recorded, by kind (drive or emergency)",
		}, []string{"kind"}),
		DonationsCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_donations_cancelled_total",
			Help: "Donations moved to CANCELLED",
		}),
		UnitsCollected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_donation_units_total",
			Help: "Blood units recorded, by blood type",
		}, []string{"blood_type"}),
		PointsAwarded: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_donation_points_awarded_total",
			Help: "Reputation points awarded for donations",
		}),
	}
}

func (m *Metrics) IncrementRecorded(kind, bloodType string, units float64) {
	if m == nil {
		return
	}
	m.DonationsRecorded.WithLabelValues(kind).Inc()
	m.UnitsCollected.WithLabelValues(bloodType).Add(units)
}

func (m *Metrics) IncrementCancelled() {
	if m == nil {
		return
	}
	m.DonationsCancelled.Inc()
}

func (m *Metrics) AddPoints(points int) {
	if m == nil {
		return
	}
	m.PointsAwarded.Add(float64(points))
}
