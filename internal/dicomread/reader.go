package dicomread

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/orientation"
)

// Reader reads slice metadata from a file. Implementations return an error
// wrapping errors.ErrCorruptSlice when the file cannot be parsed at all;
// absent attributes are reported through the metadata fields, not as errors.
type Reader interface {
	Read(path string) (SliceMetadata, error)
}

// FileReader reads DICOM files from disk, skipping pixel data.
type FileReader struct{}

// NewFileReader returns a Reader backed by the DICOM parser.
func NewFileReader() *FileReader {
	return &FileReader{}
}

// Read implements Reader.
func (r *FileReader) Read(path string) (SliceMetadata, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return SliceMetadata{}, errors.NewSliceError(
			fmt.Sprintf("parse failed: %v", err), errors.ErrCorruptSlice).WithPath(path)
	}

	return SliceMetadata{
		Path:              path,
		Orientation:       readOrientation(&ds),
		SeriesDescription: readDescription(&ds),
		PixelShape:        readShape(&ds),
	}, nil
}

// stringsOf returns the string values of an element, or false if the
// element is absent or not string-valued.
func stringsOf(ds *dicom.Dataset, t tag.Tag) ([]string, bool) {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return nil, false
	}
	values, ok := elem.Value.GetValue().([]string)
	return values, ok
}

// intsOf returns the integer values of an element, accepting both binary
// (US/UL) and string (IS) encodings.
func intsOf(ds *dicom.Dataset, t tag.Tag) ([]int, bool) {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil || elem.Value == nil {
		return nil, false
	}
	switch v := elem.Value.GetValue().(type) {
	case []int:
		return v, len(v) > 0
	case []string:
		ints, err := parseInts(v)
		return ints, err == nil && len(ints) > 0
	default:
		return nil, false
	}
}

func readOrientation(ds *dicom.Dataset) Field[orientation.Cosines] {
	values, ok := stringsOf(ds, tag.ImageOrientationPatient)
	if !ok {
		return None[orientation.Cosines]()
	}
	c, err := ParseCosines(values)
	if err != nil {
		return None[orientation.Cosines]()
	}
	return Some(c)
}

func readDescription(ds *dicom.Dataset) Field[string] {
	values, ok := stringsOf(ds, tag.SeriesDescription)
	if !ok {
		return None[string]()
	}
	// The parser already strips value padding. Anything else is kept for the
	// label extractor to see as written.
	return Some(strings.Join(values, `\`))
}

func readShape(ds *dicom.Dataset) Field[Shape] {
	rows, okRows := intsOf(ds, tag.Rows)
	cols, okCols := intsOf(ds, tag.Columns)
	if !okRows || !okCols {
		return None[Shape]()
	}

	frames := 1
	if v, ok := intsOf(ds, tag.NumberOfFrames); ok {
		frames = v[0]
	}
	samples := 1
	if v, ok := intsOf(ds, tag.SamplesPerPixel); ok {
		samples = v[0]
	}
	return Some(BuildShape(rows[0], cols[0], frames, samples))
}

// ParseCosines parses the six DS values of ImageOrientationPatient. Values
// may arrive already split or as one backslash-delimited string.
func ParseCosines(values []string) (orientation.Cosines, error) {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, `\`)...)
	}

	floats := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return orientation.Cosines{}, fmt.Errorf("invalid direction cosine %q: %w", p, err)
		}
		floats = append(floats, f)
	}
	return orientation.FromSlice(floats)
}

// BuildShape assembles a numpy-ordered shape from image dimensions.
func BuildShape(rows, cols, frames, samples int) Shape {
	var s Shape
	if frames > 1 {
		s = append(s, frames)
	}
	s = append(s, rows, cols)
	if samples > 1 {
		s = append(s, samples)
	}
	return s
}

func parseInts(values []string) ([]int, error) {
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
