// Package runlog writes the per-recording log.txt artifact.
//
// The artifact is plain text, one fact per line, and is truncated at the
// start of every run. Nothing written here carries a timestamp or run ID, so
// two runs over the same input leave byte-identical artifacts. Diagnostics
// that vary per run belong in the structured debug log instead.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Iron-Ham/ctsort/internal/plane"
)

// Separator opens every section after the first.
const Separator = "------------------------------------------------"

// Log appends lines to one artifact file. It is safe for concurrent use.
type Log struct {
	mu   sync.Mutex
	path string
}

// Open returns a Log for path. The file is not touched until Reset or Append.
func Open(path string) *Log {
	return &Log{path: path}
}

// Path returns the artifact location.
func (l *Log) Path() string {
	return l.path
}

// Reset truncates the artifact, creating it and its directory if needed.
func (l *Log) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := os.WriteFile(l.path, nil, 0644); err != nil {
		return fmt.Errorf("failed to reset log: %w", err)
	}
	return nil
}

// Append writes each line followed by a newline.
func (l *Log) Append(lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to append to log: %w", err)
	}
	return nil
}

// Appendf formats a single line.
func (l *Log) Appendf(format string, args ...any) error {
	return l.Append(fmt.Sprintf(format, args...))
}

// Header writes the opening line of a recording's first section.
func (l *Log) Header(recording int) error {
	return l.Append(RecordingLine(recording))
}

// Section writes a separator, the recording line, and a title.
func (l *Log) Section(recording int, title string) error {
	return l.Append(Separator, RecordingLine(recording), title)
}

// Read returns the artifact contents.
func (l *Log) Read() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RecordingLine formats "Recording Number: N".
func RecordingLine(recording int) string {
	return fmt.Sprintf("Recording Number: %d", recording)
}

// PlaneLabel formats a plane as it appears at the start of per-plane lines.
func PlaneLabel(p plane.Plane) string {
	return strings.ToUpper(p.String())
}
