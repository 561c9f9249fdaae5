// Package metrics exposes prometheus collectors for searches and the download queue.
package metrics

import (
	"net/http"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/queue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeOK         = "ok"
	OutcomeSuperseded = "superseded"
)

// Metrics groups the collectors registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	QueueLength    prometheus.Gauge
	Enqueues       *prometheus.CounterVec
	Removals       prometheus.Counter
	Searches       *prometheus.CounterVec
	SearchDuration prometheus.Histogram
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vidarr",
			Name:      "queue_length",
			Help:      "Number of jobs waiting in the download queue.",
		}),
		Enqueues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vidarr",
			Name:      "enqueue_total",
			Help:      "Enqueue attempts by outcome.",
		}, []string{"outcome"}),
		Removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vidarr",
			Name:      "queue_removals_total",
			Help:      "Jobs removed from the download queue.",
		}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vidarr",
			Name:      "search_total",
			Help:      "Searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vidarr",
			Name:      "search_duration_seconds",
			Help:      "Time spent validating and inspecting a URL.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.QueueLength,
		m.Enqueues,
		m.Removals,
		m.Searches,
		m.SearchDuration,
	)

	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveQueue keeps the queue collectors in step with committed mutations.
// Register it with queue.Manager.OnChange.
func (m *Metrics) ObserveQueue(event queue.Event) {
	m.QueueLength.Set(float64(event.Size))
	if event.Type == queue.EventRemoved {
		m.Removals.Inc()
	}
}

// RecordEnqueue counts an enqueue attempt under the kind of err, or ok
func (m *Metrics) RecordEnqueue(err error) {
	m.Enqueues.WithLabelValues(outcome(err)).Inc()
}

// RecordSearch counts a search and its duration
func (m *Metrics) RecordSearch(result string, seconds float64) {
	m.Searches.WithLabelValues(result).Inc()
	m.SearchDuration.Observe(seconds)
}

// SearchOutcome returns the label value for a finished search
func SearchOutcome(err error, superseded bool) string {
	if superseded {
		return OutcomeSuperseded
	}
	return outcome(err)
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return string(models.Kind(err))
}
