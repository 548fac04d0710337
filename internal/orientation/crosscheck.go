package orientation

import (
	"fmt"

	"github.com/Iron-Ham/ctsort/internal/plane"
)

// Disagreement records two classifiers returning different planes for the
// same cosines.
type Disagreement struct {
	Cosines   Cosines
	Primary   Strategy
	Secondary Strategy
	Got       plane.Plane // primary result
	Other     plane.Plane // secondary result
}

// Oblique reports whether the secondary lookup could not resolve a plane,
// which is the expected divergence for rotated acquisitions.
func (d Disagreement) Oblique() bool {
	return d.Other == plane.Unknown || d.Got == plane.Unknown
}

func (d Disagreement) String() string {
	return fmt.Sprintf("%s=%s %s=%s cosines=%v", d.Primary, d.Got, d.Secondary, d.Other, d.Cosines.Values())
}

// CrossCheck classifies c with both classifiers. It returns the primary
// result and, when the two differ, a non-nil Disagreement.
func CrossCheck(primary, secondary Classifier, c Cosines) (plane.Plane, *Disagreement) {
	got := primary.Classify(c)
	other := secondary.Classify(c)
	if got == other {
		return got, nil
	}
	return got, &Disagreement{
		Cosines:   c,
		Primary:   primary.Strategy(),
		Secondary: secondary.Strategy(),
		Got:       got,
		Other:     other,
	}
}

// Alternate returns the classifier for the strategy that is not s. It is the
// natural secondary for CrossCheck.
func Alternate(s Strategy) Classifier {
	if s == StrategyRoundedPattern {
		return CrossProduct{}
	}
	return RoundedPattern{}
}
