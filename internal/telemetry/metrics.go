package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the portal's Prometheus collectors.
type Metrics struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	submissions   *prometheus.CounterVec
	sessionEvents *prometheus.CounterVec
	rateLimited   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_fetch_total",
			Help: "Collection reads by entity and outcome.",
		}, []string{"entity", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_fetch_duration_seconds",
			Help:    "Collection read latency by entity.",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_feedback_submissions_total",
			Help: "Feedback submissions by outcome.",
		}, []string{"outcome"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_session_events_total",
			Help: "Session change notifications received.",
		}, []string{"kind"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.fetches, m.fetchDuration, m.submissions, m.sessionEvents, m.rateLimited)
	return m
}

// ObserveFetch records one collection read.
func (m *Metrics) ObserveFetch(entity string, took time.Duration, err error) {
	m.fetches.WithLabelValues(entity, outcome(err)).Inc()
	m.fetchDuration.WithLabelValues(entity).Observe(took.Seconds())
}

// ObserveSubmission records one feedback insert.
func (m *Metrics) ObserveSubmission(err error) {
	m.submissions.WithLabelValues(outcome(err)).Inc()
}

// ObserveSessionEvent counts a session notification.
func (m *Metrics) ObserveSessionEvent(kind string) {
	m.sessionEvents.WithLabelValues(kind).Inc()
}

// ObserveRateLimited counts a rejected request.
func (m *Metrics) ObserveRateLimited() {
	m.rateLimited.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
