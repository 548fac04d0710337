package orientation

import (
	"fmt"
	"math"
)

// Vector is a 3-component direction in patient coordinates.
type Vector [3]float64

// Cross returns the cross product v × w.
func (v Vector) Cross(w Vector) Vector {
	return Vector{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Abs returns the element-wise absolute value of v.
func (v Vector) Abs() Vector {
	return Vector{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

// Negate returns -v.
func (v Vector) Negate() Vector {
	return Vector{-v[0], -v[1], -v[2]}
}

// DominantAxis returns the index of the largest component. The scan moves
// left to right and only advances on a strictly greater value, so ties keep
// the earliest index.
func (v Vector) DominantAxis() int {
	index := 0
	largest := v[0]
	for i := 1; i < len(v); i++ {
		if v[i] > largest {
			largest = v[i]
			index = i
		}
	}
	return index
}

// Cosines holds the row (X) and column (Y) direction cosines of an image plane.
type Cosines struct {
	Row Vector
	Col Vector
}

// FromSlice builds Cosines from the six ImageOrientationPatient values.
func FromSlice(values []float64) (Cosines, error) {
	if len(values) != 6 {
		return Cosines{}, fmt.Errorf("orientation needs 6 direction cosines, got %d", len(values))
	}
	return Cosines{
		Row: Vector{values[0], values[1], values[2]},
		Col: Vector{values[3], values[4], values[5]},
	}, nil
}

// Values returns the six cosines in ImageOrientationPatient order.
func (c Cosines) Values() [6]float64 {
	return [6]float64{c.Row[0], c.Row[1], c.Row[2], c.Col[0], c.Col[1], c.Col[2]}
}

// Normal returns the slice-plane normal X × Y.
func (c Cosines) Normal() Vector {
	return c.Row.Cross(c.Col)
}

// Negate returns the cosines with both directions reversed.
func (c Cosines) Negate() Cosines {
	return Cosines{Row: c.Row.Negate(), Col: c.Col.Negate()}
}
