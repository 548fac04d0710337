package pipeline

import (
	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/metrics"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	logger   *logging.Logger
	metrics  *metrics.Recorder
	textfile string
	runID    string
	stages   []Stage
}

// WithLogger sets the structured logger. Defaults to a NopLogger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records run statistics into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithTextfile writes the metrics registry to path after every run. It
// implies a Recorder if none was given.
func WithTextfile(path string) Option {
	return func(o *options) {
		o.textfile = path
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithStages limits the stages run per recording. Order is always the
// canonical stage order regardless of argument order.
func WithStages(stages ...Stage) Option {
	return func(o *options) {
		o.stages = append(o.stages[:0], stages...)
	}
}
