package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/ctsort/internal/config"
	"github.com/Iron-Ham/ctsort/internal/dicomread"
	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/pipeline"
	"github.com/Iron-Ham/ctsort/internal/recording"
)

// selection holds the --set/--recording flags shared by the pipeline commands.
type selection struct {
	set    string
	number int
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.set, "set", "", "Only process this recording set (e.g. MD1)")
	cmd.Flags().IntVarP(&s.number, "recording", "r", 0, "Only process this recording number (requires --set)")
}

// recordings narrows the configured recordings to the selection.
func (s selection) recordings(cfg *config.Config) ([]recording.ID, error) {
	if s.number != 0 && s.set == "" {
		return nil, fmt.Errorf("--recording requires --set")
	}
	if s.number < 0 {
		return nil, fmt.Errorf("--recording must be positive, got %d", s.number)
	}

	if s.set == "" {
		return cfg.RecordingIDs(), nil
	}

	set := strings.ToUpper(s.set)
	count, ok := cfg.Recordings[set]
	if !ok {
		return nil, fmt.Errorf("unknown recording set %q (configured: %s)", s.set, strings.Join(setNames(cfg), ", "))
	}
	if s.number == 0 {
		return recording.IDs(map[string]int{set: count}), nil
	}
	if s.number > count {
		return nil, fmt.Errorf("%s has %d recordings, got --recording %d", set, count, s.number)
	}
	return []recording.ID{{Set: set, Number: s.number}}, nil
}

func setNames(cfg *config.Config) []string {
	var names []string
	for _, id := range recording.IDs(cfg.Recordings) {
		if id.Number == 1 {
			names = append(names, id.Set)
		}
	}
	return names
}

// newLogger opens the debug log in the output root. When logging is
// disabled it returns a logger that discards everything.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	if err := os.MkdirAll(cfg.Paths.OutputRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}
	return logging.NewLoggerWithRotation(cfg.Paths.OutputRoot, cfg.Logging.Level, cfg.RotationConfig())
}

// newPipeline wires a pipeline for the configured classifier and layout.
func newPipeline(cfg *config.Config, logger *logging.Logger, stages ...pipeline.Stage) (*pipeline.Pipeline, error) {
	classifier, err := orientation.New(orientation.Strategy(cfg.Classifier.Strategy))
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithStages(stages...),
	}
	if cfg.Metrics.Textfile != "" {
		opts = append(opts, pipeline.WithTextfile(cfg.Metrics.Textfile))
	}

	return pipeline.New(pipeline.Config{
		Reader:     dicomread.NewFileReader(),
		Classifier: classifier,
		Layout:     cfg.Layout(),
		Categorize: categorizeOptions(cfg),
	}, opts...)
}

// runPipeline loads config, runs stages over the selected recordings, and
// prints the per-recording results.
func runPipeline(cmd *cobra.Command, sel selection, stages ...pipeline.Stage) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	ids, err := sel.recordings(cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	p, err := newPipeline(cfg, logger, stages...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := p.Run(ctx, ids)
	renderRun(cmd.OutOrStdout(), result)
	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("run %s interrupted: %w", result.RunID, runErr)
	}
	if runErr != nil {
		return fmt.Errorf("%d of %d recordings failed (run %s)", result.Failed(), len(ids), result.RunID)
	}
	return nil
}
