// Package recording locates recordings on disk. A recording is identified by
// its set (e.g. "MD1") and a 1-based number, and lives at
// <root>/<set>/recording<N> in both the input and output trees.
package recording

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/plane"
)

// DefaultPattern matches slice files directly inside a recording directory.
const DefaultPattern = "*.dcm"

// DefaultLogName is the per-recording log artifact.
const DefaultLogName = "log.txt"

// ID names one recording.
type ID struct {
	Set    string
	Number int
}

// Name returns the relative directory of the recording, e.g. "MD1/recording3".
func (id ID) Name() string {
	return fmt.Sprintf("%s/recording%d", id.Set, id.Number)
}

func (id ID) String() string {
	return id.Name()
}

// IDs expands a set → count mapping into recording IDs, ordered by set then
// number.
func IDs(sets map[string]int) []ID {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	var ids []ID
	for _, name := range names {
		for n := 1; n <= sets[name]; n++ {
			ids = append(ids, ID{Set: name, Number: n})
		}
	}
	return ids
}

// Layout maps recordings onto the input and output trees.
type Layout struct {
	InputRoot  string
	OutputRoot string
	LogName    string
}

// InputDir returns the directory holding the recording's raw slices.
func (l Layout) InputDir(id ID) string {
	return filepath.Join(l.InputRoot, id.Set, fmt.Sprintf("recording%d", id.Number))
}

// OutputDir returns the recording's directory in the categorized tree.
func (l Layout) OutputDir(id ID) string {
	return filepath.Join(l.OutputRoot, id.Set, fmt.Sprintf("recording%d", id.Number))
}

// PlaneDir returns the output directory for one plane of a recording.
func (l Layout) PlaneDir(id ID, p plane.Plane) string {
	return filepath.Join(l.OutputDir(id), p.String())
}

// LogPath returns the recording's log artifact path.
func (l Layout) LogPath(id ID) string {
	name := l.LogName
	if name == "" {
		name = DefaultLogName
	}
	return filepath.Join(l.OutputDir(id), name)
}

// EnsurePlaneDirs creates the axial, coronal, and sagittal directories for a
// recording. Failure is fatal for the recording.
func (l Layout) EnsurePlaneDirs(id ID) error {
	for _, p := range plane.All() {
		dir := l.PlaneDir(id, p)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewRecordingError(err.Error(), errors.ErrDirectoryUnavailable).
				WithRecording(id.Set, id.Number).
				WithDir(dir)
		}
	}
	return nil
}

// CleanPlaneDirs removes previously categorized slices so a run starts from
// an empty output. Other files in the recording directory are left alone.
func (l Layout) CleanPlaneDirs(id ID) error {
	for _, p := range plane.All() {
		dir := l.PlaneDir(id, p)
		if err := os.RemoveAll(dir); err != nil {
			return errors.NewRecordingError(err.Error(), errors.ErrDirectoryUnavailable).
				WithRecording(id.Set, id.Number).
				WithDir(dir)
		}
	}
	return nil
}

// ListSlices returns the files under dir matching pattern, relative to dir
// and in lexical order. A missing dir is reported as ErrRecordingNotFound.
func ListSlices(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.NewValidationError("invalid slice pattern").WithField("input.pattern").WithValue(pattern)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.NewNotFoundError("recording directory", dir).WithCause(errors.ErrRecordingNotFound)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	sort.Strings(matches)
	return matches, nil
}
