// Package categorize sorts the slices of a recording into per-plane output
// directories.
//
// Each slice is read once, reconciled, and copied into the directory of its
// final plane. Unreadable files are counted and skipped, slices lacking
// orientation or description are skipped, and only a failure of the output
// tree stops the recording.
package categorize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/ctsort/internal/dicomread"
	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/reconcile"
	"github.com/Iron-Ham/ctsort/internal/recording"
	"github.com/Iron-Ham/ctsort/internal/runlog"
)

// Options tune a Categorizer.
type Options struct {
	// Pattern selects slice files inside a recording directory.
	Pattern string
	// CrossCheck runs the alternate classifier on every slice and records
	// disagreements.
	CrossCheck bool
	// Clean empties the plane directories before categorizing.
	Clean bool
}

// Categorizer applies a Reconciler to every slice of a recording.
type Categorizer struct {
	reader     dicomread.Reader
	reconciler *reconcile.Reconciler
	secondary  orientation.Classifier
	layout     recording.Layout
	opts       Options
	logger     *logging.Logger
}

// New returns a Categorizer. logger may be nil.
func New(reader dicomread.Reader, reconciler *reconcile.Reconciler, layout recording.Layout, opts Options, logger *logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	c := &Categorizer{
		reader:     reader,
		reconciler: reconciler,
		layout:     layout,
		opts:       opts,
		logger:     logger.WithStage("categorize"),
	}
	if opts.CrossCheck {
		c.secondary = orientation.Alternate(reconciler.Classifier().Strategy())
	}
	return c
}

// Categorize processes one recording. The recording's log artifact is
// truncated and rewritten with the categorization summary. The returned
// error is non-nil only when the recording could not be processed at all;
// per-slice problems are reported through the Summary.
func (c *Categorizer) Categorize(ctx context.Context, id recording.ID) (*Summary, error) {
	logger := c.logger.WithRecording(id.Name())

	if c.opts.Clean {
		if err := c.layout.CleanPlaneDirs(id); err != nil {
			return nil, err
		}
	}
	if err := c.layout.EnsurePlaneDirs(id); err != nil {
		logger.Error("output directory unavailable", "error", err.Error())
		return nil, err
	}

	artifact := runlog.Open(c.layout.LogPath(id))
	if err := artifact.Reset(); err != nil {
		return nil, errors.NewRecordingError(err.Error(), errors.ErrDirectoryUnavailable).
			WithRecording(id.Set, id.Number).
			WithDir(c.layout.OutputDir(id))
	}
	if err := artifact.Header(id.Number); err != nil {
		return nil, err
	}

	inputDir := c.layout.InputDir(id)
	files, err := recording.ListSlices(inputDir, c.opts.Pattern)
	if err != nil {
		logger.Error("cannot list slices", "dir", inputDir, "error", err.Error())
		return nil, err
	}

	summary := newSummary(id)
	stored := make(map[string]string)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			logger.Warn("categorize interrupted", "examined", summary.Total, "listed", len(files))
			// The counts so far still reach the log artifact.
			if werr := writeSummary(artifact, summary); werr != nil {
				return summary, errors.Join(err, werr)
			}
			if werr := artifact.Appendf("Interrupted after %d of %d slices", summary.Total, len(files)); werr != nil {
				return summary, errors.Join(err, werr)
			}
			return summary, err
		}
		summary.Total++
		if err := c.categorizeSlice(filepath.Join(inputDir, rel), id, summary, stored, logger); err != nil {
			return summary, err
		}
	}

	logger.Info("recording categorized",
		"total", summary.Total,
		"success", summary.Success(),
		"mismatches", summary.Mismatches,
		"missing_labels", summary.MissingLabels,
		"skipped", summary.Skipped,
		"corrupt", summary.Corrupt,
	)

	if err := writeSummary(artifact, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

func writeSummary(artifact *runlog.Log, summary *Summary) error {
	return artifact.Append(summary.CountsLine(), summary.FrequencyLine())
}

// categorizeSlice updates summary for one file. Only fatal errors are returned.
func (c *Categorizer) categorizeSlice(path string, id recording.ID, summary *Summary, stored map[string]string, logger *logging.Logger) error {
	meta, err := c.reader.Read(path)
	if err != nil {
		summary.Corrupt++
		logger.Report("corrupt slice skipped", err, "path", path)
		return nil
	}
	if !meta.Classifiable() {
		summary.Skipped++
		skipErr := errors.NewSliceError("missing "+strings.Join(meta.Missing(), ", "), errors.ErrAttributeMissing).
			WithPath(path).
			WithRecording(id.Name()).
			WithSeverity(errors.SeverityDebug)
		logger.Report("slice skipped", skipErr, "path", path, "missing", meta.Missing())
		return nil
	}

	cosines, _ := meta.Orientation.Get()
	description, _ := meta.SeriesDescription.Get()
	res := c.reconciler.Reconcile(cosines, description, summary.Frequencies)

	if c.secondary != nil {
		if _, d := orientation.CrossCheck(c.reconciler.Classifier(), c.secondary, cosines); d != nil {
			summary.Disagreements = append(summary.Disagreements, *d)
			logger.Warn("classifier strategies disagree", "path", path, "detail", d.String(), "oblique", d.Oblique())
		}
	}

	if res.Stored() {
		dir := c.layout.PlaneDir(id, res.Final)
		dst := filepath.Join(dir, filepath.Base(path))
		if prev, ok := stored[dst]; ok {
			logger.Warn("slice overwrites another with the same name", "path", path, "previous", prev)
		}

		if err := copyFile(path, dst); err != nil {
			if errors.IsSkippable(err) {
				summary.Corrupt++
				logger.Report("corrupt slice skipped", err, "path", path)
				return nil
			}
			logger.Error("cannot store slice", "path", path, "dst", dst, "error", err.Error())
			return errors.NewRecordingError(err.Error(), errors.ErrDirectoryUnavailable).
				WithRecording(id.Set, id.Number).
				WithDir(dir)
		}
		stored[dst] = path
		summary.Stored[res.Final]++
	}

	summary.Tally.Add(res)
	if msg, diag := diagnostic(res, path, id); diag != nil {
		logger.Report(msg, diag,
			"path", path,
			"description", description,
			"label", res.Label.String(),
			"geometric", res.Geometric.String(),
			"plane", res.Final.String(),
		)
	}
	return nil
}

// diagnostic describes a result worth reporting: a label naming no plane,
// or a label disagreeing with geometry. It returns a nil error for agreement.
func diagnostic(res reconcile.Result, path string, id recording.ID) (string, *errors.SliceError) {
	switch {
	case res.MissingLabel:
		msg := "label unrecognized, using geometry"
		return msg, errors.NewSliceError(msg, errors.ErrLabelUnrecognized).
			WithPath(path).
			WithRecording(id.Name()).
			WithSeverity(errors.SeverityDebug)
	case res.Mismatch:
		msg := "label disagrees with geometry"
		return msg, errors.NewSliceError(msg, errors.ErrPlaneMismatch).
			WithPath(path).
			WithRecording(id.Name())
	}
	return "", nil
}

// copyFile copies src to dst, replacing dst. Failures on the source side
// wrap errors.ErrCorruptSlice so the caller can skip the slice.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewSliceError(fmt.Sprintf("open source: %v", err), errors.ErrCorruptSlice).WithPath(src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.NewSliceError(fmt.Sprintf("stat source: %v", err), errors.ErrCorruptSlice).WithPath(src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}
	return out.Close()
}

