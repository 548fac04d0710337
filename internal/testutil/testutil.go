// Package testutil provides fixtures for ctsort tests.
//
// Real DICOM files are awkward to generate in tests, so slices are written
// as small JSON documents and read back with [FixtureReader], which
// implements dicomread.Reader. Because stored slices are byte copies of the
// input, the same reader works for the categorized output.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/ctsort/internal/dicomread"
	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/recording"
)

// Canonical direction cosines for axis-aligned acquisitions.
var (
	AxialCosines    = []float64{1, 0, 0, 0, 1, 0}
	CoronalCosines  = []float64{1, 0, 0, 0, 0, -1}
	SagittalCosines = []float64{0, 1, 0, 0, 0, -1}
	// ObliqueCosines resolves to axial by cross product and to no plane by
	// rounded-pattern lookup.
	ObliqueCosines = []float64{0.5, 0.5, 0.7071, -0.7071, 0.7071, 0}
)

// Slice describes one fixture file. Nil fields are written as absent
// attributes.
type Slice struct {
	Name        string    `json:"-"`
	Orientation []float64 `json:"orientation,omitempty"`
	Description *string   `json:"description,omitempty"`
	Shape       []int     `json:"shape,omitempty"`
	// Corrupt writes bytes the reader cannot parse.
	Corrupt bool `json:"-"`
}

// Str returns a pointer to s for Slice.Description.
func Str(s string) *string {
	return &s
}

// FixtureReader reads slices written by WriteSlice.
type FixtureReader struct{}

// Read implements dicomread.Reader.
func (FixtureReader) Read(path string) (dicomread.SliceMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dicomread.SliceMetadata{}, errors.NewSliceError(err.Error(), errors.ErrCorruptSlice).WithPath(path)
	}
	var s Slice
	if err := json.Unmarshal(data, &s); err != nil {
		return dicomread.SliceMetadata{}, errors.NewSliceError(
			fmt.Sprintf("parse failed: %v", err), errors.ErrCorruptSlice).WithPath(path)
	}

	meta := dicomread.SliceMetadata{
		Path:              path,
		Orientation:       dicomread.None[orientation.Cosines](),
		SeriesDescription: dicomread.None[string](),
		PixelShape:        dicomread.None[dicomread.Shape](),
	}
	if s.Orientation != nil {
		c, err := orientation.FromSlice(s.Orientation)
		if err != nil {
			return dicomread.SliceMetadata{}, errors.NewSliceError(err.Error(), errors.ErrCorruptSlice).WithPath(path)
		}
		meta.Orientation = dicomread.Some(c)
	}
	if s.Description != nil {
		meta.SeriesDescription = dicomread.Some(*s.Description)
	}
	if s.Shape != nil {
		meta.PixelShape = dicomread.Some(dicomread.Shape(s.Shape))
	}
	return meta, nil
}

// WriteSlice writes s into dir and returns its path.
func WriteSlice(t testing.TB, dir string, s Slice) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	data := []byte("\x00not a slice")
	if !s.Corrupt {
		var err error
		data, err = json.Marshal(s)
		if err != nil {
			t.Fatalf("failed to marshal slice %s: %v", s.Name, err)
		}
	}
	path := filepath.Join(dir, s.Name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write slice %s: %v", s.Name, err)
	}
	return path
}

// WriteRecording lays out slices in the recording's input directory.
func WriteRecording(t testing.TB, layout recording.Layout, id recording.ID, slices []Slice) {
	t.Helper()
	dir := layout.InputDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	for _, s := range slices {
		WriteSlice(t, dir, s)
	}
}

// NewLayout returns a Layout rooted in fresh temporary directories.
func NewLayout(t testing.TB) recording.Layout {
	t.Helper()
	root := t.TempDir()
	return recording.Layout{
		InputRoot:  filepath.Join(root, "recordings"),
		OutputRoot: filepath.Join(root, "categorized_ct_slices"),
		LogName:    recording.DefaultLogName,
	}
}

// MixedRecording returns ten slices: eight whose label agrees with geometry,
// one axial-labelled coronal acquisition, and one with an unrecognized
// label on a sagittal acquisition.
func MixedRecording() []Slice {
	shape := []int{512, 512}
	slices := []Slice{
		{Name: "s01.dcm", Orientation: AxialCosines, Description: Str("AXIAL 5mm"), Shape: shape},
		{Name: "s02.dcm", Orientation: AxialCosines, Description: Str("Ax Thorax"), Shape: shape},
		{Name: "s03.dcm", Orientation: AxialCosines, Description: Str("axial"), Shape: shape},
		{Name: "s04.dcm", Orientation: CoronalCosines, Description: Str("COR MPR"), Shape: shape},
		{Name: "s05.dcm", Orientation: CoronalCosines, Description: Str("Coronal"), Shape: shape},
		{Name: "s06.dcm", Orientation: SagittalCosines, Description: Str("SAG MPR"), Shape: []int{512, 256}},
		{Name: "s07.dcm", Orientation: SagittalCosines, Description: Str("sagittal"), Shape: []int{512, 256}},
		{Name: "s08.dcm", Orientation: AxialCosines, Description: Str("AXIAL"), Shape: shape},
		{Name: "s09.dcm", Orientation: CoronalCosines, Description: Str("AXIAL"), Shape: shape},
		{Name: "s10.dcm", Orientation: SagittalCosines, Description: Str("Scout"), Shape: []int{512, 256}},
	}
	return slices
}
