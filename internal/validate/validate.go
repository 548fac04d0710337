// Package validate re-checks categorized output. It never modifies stored
// slices; it only reads them back and reports.
package validate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Iron-Ham/ctsort/internal/dicomread"
	"github.com/Iron-Ham/ctsort/internal/label"
	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/plane"
	"github.com/Iron-Ham/ctsort/internal/recording"
	"github.com/Iron-Ham/ctsort/internal/runlog"
)

// Flag is a stored slice whose resolved plane differs from its directory.
type Flag struct {
	Path     string
	Resolved plane.Plane
	Label    plane.Plane
}

// PlaneReport is the validation result for one plane directory.
type PlaneReport struct {
	Plane   plane.Plane
	Total   int
	Success int
	Errors  int
	Skipped int
	Corrupt int

	Flagged     []Flag
	Frequencies label.FrequencyTable
}

// Line renders the report the way it appears in log.txt.
func (r PlaneReport) Line() string {
	return fmt.Sprintf("%s: Total samples: %d Success: %d Errors: %d Skipped: %d Corrupt: %d",
		runlog.PlaneLabel(r.Plane), r.Total, r.Success, r.Errors, r.Skipped, r.Corrupt)
}

// Report covers every plane of one recording, in plane.All order.
type Report struct {
	Recording recording.ID
	Planes    []PlaneReport
}

// Errors returns the number of flagged slices across all planes.
func (r *Report) Errors() int {
	n := 0
	for _, p := range r.Planes {
		n += p.Errors
	}
	return n
}

// Consistent reports whether no stored slice was flagged.
func (r *Report) Consistent() bool {
	return r.Errors() == 0
}

// Validator re-reads categorized slices.
type Validator struct {
	reader     dicomread.Reader
	classifier orientation.Classifier
	layout     recording.Layout
	pattern    string
	logger     *logging.Logger
}

// New returns a Validator. The classifier must match the one used to
// categorize, since slices with an unrecognized label were placed by it.
// logger may be nil.
func New(reader dicomread.Reader, classifier orientation.Classifier, layout recording.Layout, pattern string, logger *logging.Logger) *Validator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Validator{
		reader:     reader,
		classifier: classifier,
		layout:     layout,
		pattern:    pattern,
		logger:     logger,
	}
}

// Validate checks every stored slice of a recording and appends the
// per-plane results to its log artifact.
func (v *Validator) Validate(ctx context.Context, id recording.ID) (*Report, error) {
	logger := v.logger.WithStage("validate").WithRecording(id.Name())
	report := &Report{Recording: id}

	for _, p := range plane.All() {
		pr, err := v.validatePlane(ctx, id, p, logger)
		if err != nil {
			return report, err
		}
		logger.Info("plane validated",
			"plane", p.String(),
			"total", pr.Total,
			"success", pr.Success,
			"errors", pr.Errors,
		)
		report.Planes = append(report.Planes, pr)
	}

	artifact := runlog.Open(v.layout.LogPath(id))
	if err := artifact.Section(id.Number, "Validating the orientation of the categorized slices"); err != nil {
		return report, err
	}
	lines := make([]string, 0, len(report.Planes))
	for _, pr := range report.Planes {
		lines = append(lines, pr.Line())
	}
	if err := artifact.Append(lines...); err != nil {
		return report, err
	}
	return report, nil
}

func (v *Validator) validatePlane(ctx context.Context, id recording.ID, p plane.Plane, logger *logging.Logger) (PlaneReport, error) {
	dir := v.layout.PlaneDir(id, p)
	pr := PlaneReport{Plane: p, Frequencies: label.NewFrequencyTable()}

	files, err := recording.ListSlices(dir, v.pattern)
	if err != nil {
		return pr, err
	}
	pr.Total = len(files)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return pr, err
		}
		path := filepath.Join(dir, rel)

		meta, err := v.reader.Read(path)
		if err != nil {
			pr.Corrupt++
			logger.Warn("stored slice unreadable", "path", path, "error", err.Error())
			continue
		}
		if !meta.Classifiable() {
			pr.Skipped++
			logger.Warn("stored slice lacks plane attributes", "path", path, "missing", meta.Missing())
			continue
		}

		description, _ := meta.SeriesDescription.Get()
		lbl := label.Extract(description, pr.Frequencies)
		resolved := lbl
		if lbl == plane.Invalid {
			cosines, _ := meta.Orientation.Get()
			resolved = v.classifier.Classify(cosines)
		}

		if resolved != p {
			pr.Errors++
			pr.Flagged = append(pr.Flagged, Flag{Path: path, Resolved: resolved, Label: lbl})
			logger.Warn("slice stored under the wrong plane",
				"path", path,
				"directory", p.String(),
				"resolved", resolved.String(),
			)
			continue
		}
		pr.Success++
	}
	return pr, nil
}

// Count returns the number of stored slices per plane and appends the
// counts to the recording's log artifact.
func (v *Validator) Count(id recording.ID) (map[plane.Plane]int, error) {
	counts := make(map[plane.Plane]int, 3)
	lines := make([]string, 0, 3)
	for _, p := range plane.All() {
		files, err := recording.ListSlices(v.layout.PlaneDir(id, p), v.pattern)
		if err != nil {
			return counts, err
		}
		counts[p] = len(files)
		lines = append(lines, fmt.Sprintf("%s Number of slices: %d", runlog.PlaneLabel(p), len(files)))
	}

	v.logger.WithStage("count").WithRecording(id.Name()).Info("slices counted",
		"axial", counts[plane.Axial],
		"coronal", counts[plane.Coronal],
		"sagittal", counts[plane.Sagittal],
	)

	artifact := runlog.Open(v.layout.LogPath(id))
	if err := artifact.Section(id.Number, "Validating number of slices per plane"); err != nil {
		return counts, err
	}
	return counts, artifact.Append(lines...)
}
