package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers emergency requests, matching and donor responses.
type Metrics struct {
	RequestsCreated    *prometheus.CounterVec
	RequestsFulfilled  prometheus.Counter
	ResponsesCreated   prometheus.Counter
	DuplicateResponses prometheus.Counter
	CandidatesFound    prometheus.Histogram
	MatchDuration      prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_emergency_requests_created_total",
			Help: "Emergency requests created, by urgency",
		}, []string{"urgency"}),
		RequestsFulfilled: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_emergency_requests_fulfilled_total",
			Help: "Emergency requests that reached their unit target",
		}),
		ResponsesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_emergency_responses_created_total",
			Help: "Donor responses accepted",
		}),
		DuplicateResponses: f.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_emergency_responses_duplicate_total",
			Help: "Responses refused because the donor already responded",
		}),
		CandidatesFound: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeline_emergency_match_candidates",
			Help:    "Candidates returned per FindCandidates call",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		MatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeline_emergency_match_duration_seconds",
			Help:    "Duration of FindCandidates",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementRequestCreated(urgency string) {
	if m == nil {
		return
	}
	m.RequestsCreated.WithLabelValues(urgency).Inc()
}

func (m *Metrics) IncrementRequestFulfilled() {
	if m == nil {
		return
	}
	m.RequestsFulfilled.Inc()
}

func (m *Metrics) IncrementResponseCreated() {
	if m == nil {
		return
	}
	m.ResponsesCreated.Inc()
}

func (m *Metrics) IncrementDuplicateResponse() {
	if m == nil {
		return
	}
	m.DuplicateResponses.Inc()
}

// ObserveMatch records the candidate count and the duration since start.
func (m *Metrics) ObserveMatch(candidates int, start time.Time) {
	if m == nil {
		return
	}
	m.CandidatesFound.Observe(float64(candidates))
	m.MatchDuration.Observe(time.Since(start).Seconds())
}
