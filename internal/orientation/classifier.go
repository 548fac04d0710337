package orientation

import (
	"fmt"
	"math"
	"strings"

	"github.com/Iron-Ham/ctsort/internal/plane"
)

// Strategy names a plane classification procedure.
type Strategy string

const (
	// StrategyCrossProduct classifies by the dominant axis of the plane normal.
	StrategyCrossProduct Strategy = "cross_product"
	// StrategyRoundedPattern classifies by looking up rounded cosines in a
	// table of canonical orientations.
	StrategyRoundedPattern Strategy = "rounded_pattern"
)

// ValidStrategies returns the strategy names accepted by [New].
func ValidStrategies() []string {
	return []string{string(StrategyCrossProduct), string(StrategyRoundedPattern)}
}

// Classifier derives an anatomical plane from direction cosines.
// Callers must only pass cosines that were actually present on the slice.
type Classifier interface {
	Classify(c Cosines) plane.Plane
	Strategy() Strategy
}

// New returns the classifier for the named strategy.
func New(strategy Strategy) (Classifier, error) {
	switch Strategy(strings.ToLower(string(strategy))) {
	case StrategyCrossProduct, "":
		return CrossProduct{}, nil
	case StrategyRoundedPattern:
		return RoundedPattern{}, nil
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q (valid: %s)",
			strategy, strings.Join(ValidStrategies(), ", "))
	}
}

// CrossProduct classifies by the dominant component of |X × Y|.
// It never returns plane.Unknown.
type CrossProduct struct{}

// axisPlanes maps the dominant normal axis to the plane perpendicular to it.
var axisPlanes = [3]plane.Plane{plane.Sagittal, plane.Coronal, plane.Axial}

// Classify implements Classifier.
func (CrossProduct) Classify(c Cosines) plane.Plane {
	return axisPlanes[c.Normal().Abs().DominantAxis()]
}

// Strategy implements Classifier.
func (CrossProduct) Strategy() Strategy { return StrategyCrossProduct }

// pattern is a rounded ImageOrientationPatient value.
type pattern [6]int

// canonicalPatterns lists two equivalent axis-aligned orientations per plane.
// Every entry agrees with the CrossProduct result for the same cosines.
var canonicalPatterns = []struct {
	plane    plane.Plane
	patterns []pattern
}{
	{plane.Axial, []pattern{{1, 0, 0, 0, 1, 0}, {0, 1, 0, 1, 0, 0}}},
	{plane.Coronal, []pattern{{1, 0, 0, 0, 0, -1}, {-1, 0, 0, 0, 0, -1}}},
	{plane.Sagittal, []pattern{{0, 1, 0, 0, 0, -1}, {0, 0, 1, 0, 1, 0}}},
}

// RoundedPattern classifies by exact lookup of rounded cosines. Oblique
// orientations that round to no canonical pattern yield plane.Unknown.
type RoundedPattern struct{}

// Classify implements Classifier.
func (RoundedPattern) Classify(c Cosines) plane.Plane {
	rounded := roundCosines(c)
	for _, entry := range canonicalPatterns {
		for _, p := range entry.patterns {
			if rounded == p {
				return entry.plane
			}
		}
	}
	return plane.Unknown
}

// Strategy implements Classifier.
func (RoundedPattern) Strategy() Strategy { return StrategyRoundedPattern }

// roundCosines rounds half to even; -0 becomes 0 through the int conversion.
func roundCosines(c Cosines) pattern {
	var p pattern
	for i, v := range c.Values() {
		p[i] = int(math.RoundToEven(v))
	}
	return p
}
