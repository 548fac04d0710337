// Package plane defines the anatomical acquisition planes a CT slice can be
// sorted into.
package plane

import "fmt"

// Plane is the anatomical orientation of a slice.
type Plane string

const (
	// Axial is the horizontal plane; the slice normal runs head to feet.
	Axial Plane = "axial"
	// Coronal is the frontal plane; the slice normal runs anterior to posterior.
	Coronal Plane = "coronal"
	// Sagittal is the side plane; the slice normal runs left to right.
	Sagittal Plane = "sagittal"
	// Unknown means no plane could be resolved from the available signals.
	Unknown Plane = "unknown"
	// Invalid is returned by label extraction when a description names no
	// recognized plane. It never reaches storage.
	Invalid Plane = "invalid"
)

// All returns the storable planes in their canonical processing order.
func All() []Plane {
	return []Plane{Axial, Coronal, Sagittal}
}

// String returns the plane name, which is also its directory name.
func (p Plane) String() string {
	return string(p)
}

// Valid reports whether p is one of the three storable planes.
func (p Plane) Valid() bool {
	switch p {
	case Axial, Coronal, Sagittal:
		return true
	default:
		return false
	}
}

// Parse converts a plane name into a Plane.
func Parse(s string) (Plane, error) {
	p := Plane(s)
	if !p.Valid() {
		return Unknown, fmt.Errorf("unknown plane %q", s)
	}
	return p, nil
}
