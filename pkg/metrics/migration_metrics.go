package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Recorder owns its registry so a run's counters can be exported on their own
// (textfile collector) and tests do not share state.
type Recorder struct {
	registry *prometheus.Registry

	rows          *prometheus.CounterVec
	entityLatency *prometheus.HistogramVec
	tablesCreated *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		rows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legacy_migrate",
			Subsystem: "rows",
			Name:      "total",
			Help:      "Source rows processed broken down by entity and outcome.",
		}, []string{"entity", "outcome"}),
		entityLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "legacy_migrate",
			Subsystem: "entity",
			Name:      "duration_seconds",
			Help:      "Wall time spent migrating each entity.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"entity"}),
		tablesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legacy_migrate",
			Subsystem: "schema",
			Name:      "tables_created_total",
			Help:      "Destination tables created by the provisioner.",
		}, []string{"table"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "legacy_migrate",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last migration run finished.",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Recording methods are no-ops on a nil Recorder.
func (r *Recorder) RecordRow(entity, outcome string) {
	if r == nil {
		return
	}
	if outcome == "" {
		outcome = OutcomeFailed
	}
	r.rows.WithLabelValues(entity, outcome).Inc()
}

func (r *Recorder) ObserveEntity(entity string, d time.Duration) {
	if r == nil {
		return
	}
	r.entityLatency.WithLabelValues(entity).Observe(d.Seconds())
}

func (r *Recorder) RecordTableCreated(table string) {
	if r == nil {
		return
	}
	r.tablesCreated.WithLabelValues(table).Inc()
}

func (r *Recorder) MarkRunFinished(at time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
