package dicomread

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"github.com/suyashkumar/dicom/pkg/uid"

	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/orientation"
)

func TestParseCosines(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    orientation.Cosines
		wantErr bool
	}{
		{
			name:   "split values",
			values: []string{"1", "0", "0", "0", "1", "0"},
			want:   orientation.Cosines{Row: orientation.Vector{1, 0, 0}, Col: orientation.Vector{0, 1, 0}},
		},
		{
			name:   "backslash delimited with padding",
			values: []string{` 1.0\0.0\0.0\0.0\0.0\-1.0 `},
			want:   orientation.Cosines{Row: orientation.Vector{1, 0, 0}, Col: orientation.Vector{0, 0, -1}},
		},
		{
			name:    "too few values",
			values:  []string{"1", "0", "0"},
			wantErr: true,
		},
		{
			name:    "not a number",
			values:  []string{"1", "0", "x", "0", "1", "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCosines(tt.values)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCosines failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("cosines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildShape(t *testing.T) {
	tests := []struct {
		name                        string
		rows, cols, frames, samples int
		want                        string
	}{
		{"single frame grayscale", 512, 512, 1, 1, "(512, 512)"},
		{"multi frame", 512, 512, 40, 1, "(40, 512, 512)"},
		{"color", 256, 256, 1, 3, "(256, 256, 3)"},
		{"zero frames treated as single", 128, 64, 0, 1, "(128, 64)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildShape(tt.rows, tt.cols, tt.frames, tt.samples).String()
			if got != tt.want {
				t.Errorf("BuildShape().String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestField(t *testing.T) {
	f := Some("AXIAL")
	if v, ok := f.Get(); !ok || v != "AXIAL" {
		t.Errorf("Some.Get() = %q, %v", v, ok)
	}

	missing := None[string]()
	if missing.IsPresent() {
		t.Error("None should not be present")
	}
	if v, ok := missing.Get(); ok || v != "" {
		t.Errorf("None.Get() = %q, %v", v, ok)
	}
}

func TestSliceMetadata_Classifiable(t *testing.T) {
	c := orientation.Cosines{Row: orientation.Vector{1, 0, 0}, Col: orientation.Vector{0, 1, 0}}

	full := SliceMetadata{Orientation: Some(c), SeriesDescription: Some("AX")}
	if !full.Classifiable() {
		t.Error("metadata with both signals should be classifiable")
	}

	noLabel := SliceMetadata{Orientation: Some(c), SeriesDescription: None[string]()}
	if noLabel.Classifiable() {
		t.Error("metadata without a label should not be classifiable")
	}
	if diff := cmp.Diff([]string{"SeriesDescription"}, noLabel.Missing()); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}

	empty := SliceMetadata{}
	if diff := cmp.Diff([]string{"ImageOrientationPatient", "SeriesDescription"}, empty.Missing()); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileReader_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.dcm")
	if err := os.WriteFile(path, []byte("this is not a dicom file"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := NewFileReader().Read(path)
	if err == nil {
		t.Fatal("expected error for non-DICOM file")
	}
	if !errors.Is(err, errors.ErrCorruptSlice) {
		t.Errorf("expected ErrCorruptSlice, got %v", err)
	}
	var sliceErr *errors.SliceError
	if !errors.As(err, &sliceErr) || sliceErr.Path != path {
		t.Errorf("expected SliceError with path %q, got %v", path, err)
	}
}

// writeDataset writes a DICOM file holding the file meta header plus extra.
func writeDataset(t *testing.T, name string, extra ...*dicom.Element) string {
	t.Helper()
	elems := []*dicom.Element{
		mustElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.3.4.5.6.7"}),
		mustElement(t, tag.TransferSyntaxUID, []string{uid.ExplicitVRLittleEndian}),
	}
	elems = append(elems, extra...)

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := dicom.Write(f, dicom.Dataset{Elements: elems}); err != nil {
		t.Fatalf("dicom.Write failed: %v", err)
	}
	return path
}

func mustElement(t *testing.T, tg tag.Tag, data any) *dicom.Element {
	t.Helper()
	elem, err := dicom.NewElement(tg, data)
	if err != nil {
		t.Fatalf("NewElement(%v) failed: %v", tg, err)
	}
	return elem
}

func TestFileReader_Read(t *testing.T) {
	path := writeDataset(t, "s001.dcm",
		mustElement(t, tag.ImageOrientationPatient, []string{"1", "0", "0", "0", "0", "-1"}),
		mustElement(t, tag.SeriesDescription, []string{"AX SCAN 3"}),
		mustElement(t, tag.Rows, []int{512}),
		mustElement(t, tag.Columns, []int{256}),
	)

	meta, err := NewFileReader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if meta.Path != path {
		t.Errorf("Path = %q, want %q", meta.Path, path)
	}

	c, ok := meta.Orientation.Get()
	if !ok {
		t.Fatal("orientation missing")
	}
	want := orientation.Cosines{Row: orientation.Vector{1, 0, 0}, Col: orientation.Vector{0, 0, -1}}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("orientation mismatch (-want +got):\n%s", diff)
	}

	if desc, ok := meta.SeriesDescription.Get(); !ok || desc != "AX SCAN 3" {
		t.Errorf("SeriesDescription = %q, %v", desc, ok)
	}

	shape, ok := meta.PixelShape.Get()
	if !ok {
		t.Fatal("pixel shape missing")
	}
	if shape.String() != "(512, 256)" {
		t.Errorf("PixelShape = %s, want (512, 256)", shape)
	}
	if !meta.Classifiable() {
		t.Error("slice with orientation and description should be classifiable")
	}
}

func TestFileReader_MissingAttributes(t *testing.T) {
	path := writeDataset(t, "bare.dcm",
		mustElement(t, tag.Rows, []int{512}),
	)

	meta, err := NewFileReader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if meta.Orientation.IsPresent() || meta.SeriesDescription.IsPresent() {
		t.Errorf("expected orientation and description to be missing: %+v", meta)
	}
	if meta.PixelShape.IsPresent() {
		t.Error("shape needs both Rows and Columns")
	}
	if diff := cmp.Diff([]string{"ImageOrientationPatient", "SeriesDescription"}, meta.Missing()); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileReader_DescriptionKeptAsWritten(t *testing.T) {
	// Only value padding is stripped; the frequency table keys on the rest.
	path := writeDataset(t, "tab.dcm",
		mustElement(t, tag.ImageOrientationPatient, []string{"1", "0", "0", "0", "1", "0"}),
		mustElement(t, tag.SeriesDescription, []string{"\tScout 3D"}),
	)

	meta, err := NewFileReader().Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if desc, _ := meta.SeriesDescription.Get(); desc != "\tScout 3D" {
		t.Errorf("SeriesDescription = %q, want %q", desc, "\tScout 3D")
	}
}
