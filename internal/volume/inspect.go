// Package volume checks that the slices of each plane can be stacked into a
// volume. It reads pixel array shapes only; no pixel data is decoded and no
// volume is assembled.
package volume

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Iron-Ham/ctsort/internal/dicomread"
	"github.com/Iron-Ham/ctsort/internal/logging"
	"github.com/Iron-Ham/ctsort/internal/plane"
	"github.com/Iron-Ham/ctsort/internal/recording"
	"github.com/Iron-Ham/ctsort/internal/runlog"
)

// ShapeSet is the distinct pixel shapes seen in one plane, sorted.
type ShapeSet struct {
	Plane  plane.Plane
	Shapes []dicomread.Shape
	// Slices is the number of slices whose shape was read.
	Slices int
	// Unreadable counts slices that could not be read or had no shape.
	Unreadable int
}

// Uniform reports whether exactly one shape was seen, which means the plane
// is ready for volume assembly.
func (s ShapeSet) Uniform() bool {
	return len(s.Shapes) == 1
}

// String renders the set, e.g. {(512, 512), (512, 256)}.
func (s ShapeSet) String() string {
	parts := make([]string, len(s.Shapes))
	for i, shape := range s.Shapes {
		parts[i] = shape.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Inspector collects shape sets from categorized output.
type Inspector struct {
	reader  dicomread.Reader
	layout  recording.Layout
	pattern string
	logger  *logging.Logger
}

// NewInspector returns an Inspector. logger may be nil.
func NewInspector(reader dicomread.Reader, layout recording.Layout, pattern string, logger *logging.Logger) *Inspector {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Inspector{
		reader:  reader,
		layout:  layout,
		pattern: pattern,
		logger:  logger.WithStage("inspect"),
	}
}

// Inspect returns one ShapeSet per plane, in plane.All order, and appends
// them to the recording's log artifact.
func (in *Inspector) Inspect(ctx context.Context, id recording.ID) ([]ShapeSet, error) {
	logger := in.logger.WithRecording(id.Name())

	var sets []ShapeSet
	for _, p := range plane.All() {
		set, err := in.inspectPlane(ctx, id, p, logger)
		if err != nil {
			return sets, err
		}
		if !set.Uniform() && set.Slices > 0 {
			logger.Warn("plane has mixed slice shapes", "plane", p.String(), "shapes", set.String())
		}
		sets = append(sets, set)
	}

	artifact := runlog.Open(in.layout.LogPath(id))
	if err := artifact.Section(id.Number, "Inspecting volume shapes per plane"); err != nil {
		return sets, err
	}
	lines := make([]string, len(sets))
	for i, s := range sets {
		lines[i] = runlog.PlaneLabel(s.Plane) + " Shapes: " + s.String()
	}
	return sets, artifact.Append(lines...)
}

func (in *Inspector) inspectPlane(ctx context.Context, id recording.ID, p plane.Plane, logger *logging.Logger) (ShapeSet, error) {
	set := ShapeSet{Plane: p}
	dir := in.layout.PlaneDir(id, p)

	files, err := recording.ListSlices(dir, in.pattern)
	if err != nil {
		return set, err
	}

	seen := make(map[string]dicomread.Shape)
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return set, err
		}
		path := filepath.Join(dir, rel)
		meta, err := in.reader.Read(path)
		if err != nil {
			set.Unreadable++
			logger.Warn("cannot read slice shape", "path", path, "error", err.Error())
			continue
		}
		shape, ok := meta.PixelShape.Get()
		if !ok {
			set.Unreadable++
			logger.Debug("slice has no pixel shape", "path", path)
			continue
		}
		set.Slices++
		seen[shape.String()] = shape
	}

	for _, shape := range seen {
		set.Shapes = append(set.Shapes, shape)
	}
	sort.Slice(set.Shapes, func(i, j int) bool {
		return lessShape(set.Shapes[i], set.Shapes[j])
	})
	return set, nil
}

// lessShape orders shapes by rank, then dimension by dimension.
func lessShape(a, b dicomread.Shape) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
