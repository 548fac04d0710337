package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/ctsort/internal/categorize"
	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/metrics"
	"github.com/Iron-Ham/ctsort/internal/reconcile"
	"github.com/Iron-Ham/ctsort/internal/recording"
	"github.com/Iron-Ham/ctsort/internal/validate"
	"github.com/Iron-Ham/ctsort/internal/volume"
)

// Pipeline processes recordings one at a time, running each enabled stage
// to completion under the recording's run lock.
type Pipeline struct {
	cfg     Config
	opts    options
	enabled map[Stage]bool
	logger  *logging.Logger

	categorizer *categorize.Categorizer
	validator   *validate.Validator
	inspector   *volume.Inspector
}

// New creates a Pipeline with the given configuration and options.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if cfg.Reader == nil {
		return nil, errors.New("pipeline: Reader is required")
	}
	if cfg.Classifier == nil {
		return nil, errors.New("pipeline: Classifier is required")
	}
	if cfg.Layout.InputRoot == "" || cfg.Layout.OutputRoot == "" {
		return nil, errors.New("pipeline: Layout needs both input and output roots")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	if o.textfile != "" && o.metrics == nil {
		o.metrics = metrics.NewRecorder()
	}
	if len(o.stages) == 0 {
		o.stages = AllStages()
	}

	enabled := make(map[Stage]bool, len(o.stages))
	for _, s := range o.stages {
		enabled[s] = true
	}

	logger := o.logger.WithRun(o.runID)
	pattern := cfg.Categorize.Pattern
	return &Pipeline{
		cfg:         cfg,
		opts:        o,
		enabled:     enabled,
		logger:      logger,
		categorizer: categorize.New(cfg.Reader, reconcile.New(cfg.Classifier), cfg.Layout, cfg.Categorize, logger),
		validator:   validate.New(cfg.Reader, cfg.Classifier, cfg.Layout, pattern, logger),
		inspector:   volume.NewInspector(cfg.Reader, cfg.Layout, pattern, logger),
	}, nil
}

// RunID returns the identifier attached to every log entry of this pipeline.
func (p *Pipeline) RunID() string {
	return p.opts.runID
}

// Run processes ids in order. A recording that fails is recorded in the
// result and the run moves on to the next; the returned error joins every
// recording error. Cancellation stops the run between slices.
func (p *Pipeline) Run(ctx context.Context, ids []recording.ID) (*RunResult, error) {
	result := &RunResult{RunID: p.opts.runID}
	p.logger.Info("run started", "recordings", len(ids), "strategy", string(p.cfg.Classifier.Strategy()))

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		rec := p.runRecording(ctx, id)
		result.Recordings = append(result.Recordings, rec)
		if p.opts.metrics != nil {
			p.opts.metrics.RecordingDone(rec.Err)
		}
		if rec.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id.Name(), rec.Err))
			if ctx.Err() != nil {
				break
			}
		}
	}

	if m := p.opts.metrics; m != nil {
		m.RunFinished(time.Now())
		if p.opts.textfile != "" {
			if err := m.WriteTextfile(p.opts.textfile); err != nil {
				p.logger.Warn("failed to write metrics textfile", "path", p.opts.textfile, "error", err.Error())
			}
		}
	}

	p.logger.Info("run finished", "recordings", len(result.Recordings), "failed", result.Failed())
	return result, errors.Join(errs...)
}

func (p *Pipeline) runRecording(ctx context.Context, id recording.ID) RecordingResult {
	start := time.Now()
	rec := RecordingResult{ID: id}
	logger := p.logger.WithRecording(id.Name())

	// The lock lives in the output tree, so a recording must exist before
	// locking creates anything on its behalf.
	outDir := p.cfg.Layout.OutputDir(id)
	required, what := outDir, "categorized recording"
	if p.enabled[StageCategorize] {
		required, what = p.cfg.Layout.InputDir(id), "recording directory"
	}
	if info, err := os.Stat(required); err != nil || !info.IsDir() {
		rec.Err = errors.NewNotFoundError(what, required).WithCause(errors.ErrRecordingNotFound)
		logger.Report("recording not found", rec.Err, "dir", required)
		return rec
	}

	lock, err := recording.AcquireLock(outDir, id, p.opts.runID, logger)
	if err != nil {
		rec.Err = err
		return rec
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", "error", err.Error())
		}
	}()

	rec.Err = p.runStages(ctx, id, &rec)
	rec.Duration = time.Since(start)
	if rec.Err != nil {
		logger.Report("recording failed", rec.Err, "fatal", errors.IsFatal(rec.Err))
	}
	return rec
}

func (p *Pipeline) runStages(ctx context.Context, id recording.ID, rec *RecordingResult) error {
	for _, stage := range AllStages() {
		if !p.enabled[stage] {
			continue
		}
		start := time.Now()

		var err error
		switch stage {
		case StageCategorize:
			rec.Summary, err = p.categorizer.Categorize(ctx, id)
			if err == nil && p.opts.metrics != nil {
				p.opts.metrics.ObserveCategorize(rec.Summary)
			}
		case StageValidate:
			rec.Validation, err = p.validator.Validate(ctx, id)
			if err == nil && p.opts.metrics != nil {
				p.opts.metrics.ObserveValidate(rec.Validation)
			}
		case StageCount:
			rec.Counts, err = p.validator.Count(id)
		case StageInspect:
			rec.Shapes, err = p.inspector.Inspect(ctx, id)
		}

		if p.opts.metrics != nil {
			p.opts.metrics.ObserveStage(stage.String(), time.Since(start))
		}
		if err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
	}
	return nil
}
