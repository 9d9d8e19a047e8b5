package server

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the HTTP API.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	failures        *prometheus.CounterVec
	quizzesStored   prometheus.Counter
}

// MustNewMetrics registers the API collectors with reg. Collectors already
// registered under the same name are reused.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coursellm",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests by route and status code.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route", "status"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coursellm",
			Subsystem: "api",
			Name:      "failures_total",
			Help:      "Failed API requests by route and error kind.",
		},
		[]string{"route", "kind"},
	)
	quizzesStored := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coursellm",
			Subsystem: "api",
			Name:      "quizzes_stored_total",
			Help:      "Quizzes persisted to the document store.",
		},
	)

	m := &Metrics{requestDuration: requestDuration, failures: failures, quizzesStored: quizzesStored}
	for _, collector := range []prometheus.Collector{requestDuration, failures, quizzesStored} {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				panic(err)
			}
			switch collector {
			case requestDuration:
				m.requestDuration = already.ExistingCollector.(*prometheus.HistogramVec)
			case failures:
				m.failures = already.ExistingCollector.(*prometheus.CounterVec)
			case quizzesStored:
				m.quizzesStored = already.ExistingCollector.(prometheus.Counter)
			}
		}
	}
	return m
}

// ObserveRequest records the duration of a finished request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}

// IncFailure counts a failed request.
func (m *Metrics) IncFailure(route, kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(route, kind).Inc()
}

// IncQuizStored counts a persisted quiz.
func (m *Metrics) IncQuizStored() {
	if m == nil {
		return
	}
	m.quizzesStored.Inc()
}
