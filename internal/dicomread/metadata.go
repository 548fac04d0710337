// Package dicomread reads the handful of DICOM attributes the categorization
// pipeline needs: ImageOrientationPatient, SeriesDescription, and the pixel
// array shape. Pixel data itself is never decoded.
//
// Every attribute is returned as a [Field], which is either present with a
// value or explicitly missing, so callers never probe for attribute
// existence themselves.
package dicomread

import (
	"strconv"
	"strings"

	"github.com/Iron-Ham/ctsort/internal/orientation"
)

// Field is an optional attribute value.
type Field[T any] struct {
	value   T
	present bool
}

// Some returns a present field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

// None returns a missing field.
func None[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it was present.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.present
}

// IsPresent reports whether the attribute was present on the slice.
func (f Field[T]) IsPresent() bool {
	return f.present
}

// Shape is the pixel array shape in numpy order: (rows, cols), with frames
// prepended for multi-frame images and samples appended for color images.
type Shape []int

// String renders the shape as a tuple, e.g. (512, 512).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// SliceMetadata is the per-file attribute snapshot.
type SliceMetadata struct {
	Path              string
	Orientation       Field[orientation.Cosines]
	SeriesDescription Field[string]
	PixelShape        Field[Shape]
}

// Classifiable reports whether both plane signals are available. Slices
// that are not classifiable are skipped before reconciliation.
func (m SliceMetadata) Classifiable() bool {
	return m.Orientation.IsPresent() && m.SeriesDescription.IsPresent()
}

// Missing returns the names of the classification attributes that are absent.
func (m SliceMetadata) Missing() []string {
	var missing []string
	if !m.Orientation.IsPresent() {
		missing = append(missing, "ImageOrientationPatient")
	}
	if !m.SeriesDescription.IsPresent() {
		missing = append(missing, "SeriesDescription")
	}
	return missing
}
