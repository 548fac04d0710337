// Package metrics records run statistics in a Prometheus registry and
// exports them as a node_exporter textfile. ctsort is a batch tool, so
// nothing is served over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Iron-Ham/ctsort/internal/categorize"
	"github.com/Iron-Ham/ctsort/internal/validate"
)

// Slice outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeMissingLabel = "missing_label"
	OutcomeSkipped      = "skipped"
	OutcomeCorrupt      = "corrupt"
)

// Recorder owns a private registry so that tests and repeated runs in one
// process never collide on the default registerer.
type Recorder struct {
	registry *prometheus.Registry

	slices           *prometheus.CounterVec
	mismatches       *prometheus.CounterVec
	disagreements    *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	recordings       *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	lastRun          prometheus.Gauge
}

// NewRecorder builds a Recorder with all ctsort metrics registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		// slices counts categorized slices by recording set and outcome
		slices: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ctsort_slices_total",
			Help: "Slices examined during categorization by outcome",
		}, []string{"set", "outcome"}),
		mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ctsort_label_mismatches_total",
			Help: "Slices whose label disagreed with their geometry",
		}, []string{"set"}),
		disagreements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ctsort_classifier_disagreements_total",
			Help: "Slices on which the two classifier strategies disagreed",
		}, []string{"set"}),
		validationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ctsort_validation_errors_total",
			Help: "Stored slices flagged by validation",
		}, []string{"set", "plane"}),
		recordings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ctsort_recordings_total",
			Help: "Recordings processed by result",
		}, []string{"result"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ctsort_stage_duration_seconds",
			Help:    "Time spent per pipeline stage per recording",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}, []string{"stage"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ctsort_last_run_timestamp_seconds",
			Help: "Unix time at which the last run finished",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveCategorize adds a categorization summary.
func (r *Recorder) ObserveCategorize(s *categorize.Summary) {
	set := s.Recording.Set
	r.slices.WithLabelValues(set, OutcomeSuccess).Add(float64(s.Success()))
	r.slices.WithLabelValues(set, OutcomeMissingLabel).Add(float64(s.MissingLabels))
	r.slices.WithLabelValues(set, OutcomeSkipped).Add(float64(s.Skipped))
	r.slices.WithLabelValues(set, OutcomeCorrupt).Add(float64(s.Corrupt))
	r.mismatches.WithLabelValues(set).Add(float64(s.Mismatches))
	r.disagreements.WithLabelValues(set).Add(float64(len(s.Disagreements)))
}

// ObserveValidate adds a validation report.
func (r *Recorder) ObserveValidate(rep *validate.Report) {
	for _, p := range rep.Planes {
		r.validationErrors.WithLabelValues(rep.Recording.Set, p.Plane.String()).Add(float64(p.Errors))
	}
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordingDone counts a finished recording.
func (r *Recorder) RecordingDone(err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	r.recordings.WithLabelValues(result).Inc()
}

// RunFinished stamps the end of a run.
func (r *Recorder) RunFinished(t time.Time) {
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes the registry in the text exposition format. The file
// is written atomically, so a collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
