// Package metrics provides Prometheus metrics for the fetch and reconstruction pipeline.
// Metrics are kept in a private registry and written to a node-exporter
// textfile when the process finishes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/runoshun/chat-tasks/internal/domain"
)

// Ensure Recorder implements domain.Metrics.
var _ domain.Metrics = (*Recorder)(nil)

// Recorder records pipeline metrics into its own registry.
type Recorder struct {
	registry           *prometheus.Registry
	messagesFetched    *prometheus.CounterVec
	eventsClassified   *prometheus.CounterVec
	tasksReconstructed *prometheus.GaugeVec
	fetchRetries       *prometheus.CounterVec
	fetchFailures      *prometheus.CounterVec
	fetchDuration      *prometheus.HistogramVec
	textfile           string
}

// New creates a Recorder. An empty textfile makes Flush a no-op.
func New(textfile string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Recorder{
		registry: reg,
		textfile: textfile,
		messagesFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chattasks_messages_fetched_total",
				Help: "Total number of chat messages fetched",
			},
			[]string{"space"},
		),
		eventsClassified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chattasks_events_classified_total",
				Help: "Total number of task notifications classified, by kind",
			},
			[]string{"kind"},
		),
		tasksReconstructed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chattasks_tasks_reconstructed",
				Help: "Number of tasks reconstructed in the last run",
			},
			[]string{"space"},
		),
		fetchRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chattasks_fetch_retries_total",
				Help: "Total number of retried chat API calls",
			},
			[]string{"operation"},
		),
		fetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chattasks_fetch_failures_total",
				Help: "Total number of spaces whose fetch failed",
			},
			[]string{"space"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chattasks_fetch_duration_seconds",
				Help:    "Time spent fetching the messages of one space",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"space"},
		),
	}
	// Zero series for every kind so a run without notifications still reports them.
	for _, kind := range domain.AllEventKinds() {
		r.eventsClassified.WithLabelValues(string(kind))
	}
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// MessagesFetched counts messages fetched from a space.
func (r *Recorder) MessagesFetched(space string, n int) {
	r.messagesFetched.WithLabelValues(space).Add(float64(n))
}

func (r *Recorder) EventClassified(kind domain.EventKind) {
	r.eventsClassified.WithLabelValues(string(kind)).Inc()
}

// TasksReconstructed records the task count of a space for this run.
func (r *Recorder) TasksReconstructed(space string, n int) {
	r.tasksReconstructed.WithLabelValues(space).Set(float64(n))
}

func (r *Recorder) FetchRetried(operation string) {
	r.fetchRetries.WithLabelValues(operation).Inc()
}

func (r *Recorder) FetchFailed(space string) {
	r.fetchFailures.WithLabelValues(space).Inc()
}

func (r *Recorder) ObserveFetch(space string, d time.Duration) {
	r.fetchDuration.WithLabelValues(space).Observe(d.Seconds())
}

// Flush writes all metrics to the configured textfile.
func (r *Recorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(r.textfile, r.registry)
}

// Nop discards every measurement.
type Nop struct{}

// Ensure Nop implements domain.Metrics.
var _ domain.Metrics = Nop{}

func (Nop) MessagesFetched(string, int) {}
func (Nop) EventClassified(domain.EventKind) {}
func (Nop) TasksReconstructed(string, int) {}
func (Nop) FetchRetried(string) {}
func (Nop) FetchFailed(string) {}
func (Nop) ObserveFetch(string, time.Duration) {}
func (Nop) Flush() error { return nil }
