// Package reconcile combines the geometric and the text-label plane signals
// of a slice into a single storage decision.
//
// The label takes precedence whenever it names a plane, because scanner
// operators set it deliberately. Geometry is the fallback. Disagreement
// between the two is recorded as a diagnostic and never corrected.
package reconcile

import (
	"github.com/Iron-Ham/ctsort/internal/label"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/plane"
)

// Result is the reconciliation outcome for one slice.
type Result struct {
	Final     plane.Plane // placement decision
	Geometric plane.Plane // from the orientation classifier
	Label     plane.Plane // from the label extractor; plane.Invalid if unrecognized

	// Mismatch is set when a valid label disagrees with geometry.
	Mismatch bool
	// MissingLabel is set when the label named no plane and geometry was used.
	MissingLabel bool
}

// Stored reports whether the result resolves to a storable plane.
func (r Result) Stored() bool {
	return r.Final.Valid()
}

// Reconciler resolves slices with a fixed orientation classifier.
type Reconciler struct {
	classifier orientation.Classifier
}

// New returns a Reconciler using classifier for the geometric signal.
func New(classifier orientation.Classifier) *Reconciler {
	return &Reconciler{classifier: classifier}
}

// Classifier returns the orientation classifier in use.
func (r *Reconciler) Classifier() orientation.Classifier {
	return r.classifier
}

// Reconcile resolves one slice whose orientation and description are both
// present. The label token is counted in freq.
func (r *Reconciler) Reconcile(c orientation.Cosines, description string, freq label.FrequencyTable) Result {
	res := Result{
		Geometric: r.classifier.Classify(c),
		Label:     label.Extract(description, freq),
	}

	if res.Label == plane.Invalid {
		res.Final = res.Geometric
		res.MissingLabel = true
		return res
	}

	res.Final = res.Label
	res.Mismatch = res.Label != res.Geometric
	return res
}

// Tally accumulates reconciliation statistics for one recording.
type Tally struct {
	Agreements    int
	Mismatches    int
	MissingLabels int
}

// Add records one result.
func (t *Tally) Add(r Result) {
	switch {
	case r.MissingLabel:
		t.MissingLabels++
	case r.Mismatch:
		t.Mismatches++
	default:
		t.Agreements++
	}
}

// Success returns the number of results placed by a recognized label,
// mismatches included.
func (t Tally) Success() int {
	return t.Agreements + t.Mismatches
}

// Total returns the number of results recorded.
func (t Tally) Total() int {
	return t.Agreements + t.Mismatches + t.MissingLabels
}
