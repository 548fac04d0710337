package pipeline

import (
	"time"

	"github.com/Iron-Ham/ctsort/internal/categorize"
	"github.com/Iron-Ham/ctsort/internal/dicomread"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/plane"
	"github.com/Iron-Ham/ctsort/internal/recording"
	"github.com/Iron-Ham/ctsort/internal/validate"
	"github.com/Iron-Ham/ctsort/internal/volume"
)

// Stage is one step of per-recording processing.
type Stage string

const (
	// StageCategorize sorts input slices into plane directories.
	StageCategorize Stage = "categorize"

	// StageValidate re-checks stored slices against their directory.
	StageValidate Stage = "validate"

	// StageCount records the number of stored slices per plane.
	StageCount Stage = "count"

	// StageInspect collects the distinct pixel shapes per plane.
	StageInspect Stage = "inspect"
)

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// AllStages returns every stage in execution order.
func AllStages() []Stage {
	return []Stage{StageCategorize, StageValidate, StageCount, StageInspect}
}

// Config holds the required dependencies of a Pipeline.
type Config struct {
	Reader     dicomread.Reader       // Reads slice attributes
	Classifier orientation.Classifier // Geometric plane classifier
	Layout     recording.Layout       // Input and output trees
	Categorize categorize.Options     // Pattern also selects files for later stages
}

// RecordingResult holds what each stage produced for one recording. Fields
// for stages that did not run are nil.
type RecordingResult struct {
	ID         recording.ID
	Summary    *categorize.Summary
	Validation *validate.Report
	Counts     map[plane.Plane]int
	Shapes     []volume.ShapeSet
	Duration   time.Duration
	Err        error
}

// Failed reports whether the recording stopped early.
func (r RecordingResult) Failed() bool {
	return r.Err != nil
}

// RunResult is the outcome of one Run.
type RunResult struct {
	RunID      string
	Recordings []RecordingResult
}

// Failed returns the number of recordings that stopped early.
func (r *RunResult) Failed() int {
	n := 0
	for _, rec := range r.Recordings {
		if rec.Failed() {
			n++
		}
	}
	return n
}
