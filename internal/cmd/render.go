package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Iron-Ham/ctsort/internal/pipeline"
	"github.com/Iron-Ham/ctsort/internal/plane"
	"github.com/Iron-Ham/ctsort/internal/runlog"
)

// Terminal palette
var (
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	successColor = lipgloss.Color("#10B981") // Green
	warningColor = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle   = lipgloss.NewStyle().Width(10)
)

const (
	defaultWidth = 60
	maxWidth     = 100
)

// terminalWidth returns the width used for separators.
func terminalWidth() int {
	if termWidth, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && termWidth > 0 {
		return min(termWidth, maxWidth)
	}
	return defaultWidth
}

func separator() string {
	return mutedStyle.Render(strings.Repeat("─", terminalWidth()))
}

// renderRun prints one block per recording followed by a totals line.
func renderRun(w io.Writer, result *pipeline.RunResult) {
	if result == nil {
		return
	}
	for _, rec := range result.Recordings {
		renderRecording(w, rec)
	}

	failed := result.Failed()
	status := successStyle.Render("ok")
	if failed > 0 {
		status = errorStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	fmt.Fprintf(w, "%d recordings, %s %s\n", len(result.Recordings), status,
		mutedStyle.Render("(run "+result.RunID+")"))
}

func renderRecording(w io.Writer, rec pipeline.RecordingResult) {
	fmt.Fprintln(w, titleStyle.Render(rec.ID.Name())+" "+mutedStyle.Render(rec.Duration.Round(time.Millisecond).String()))

	if s := rec.Summary; s != nil {
		fmt.Fprintln(w, "  "+s.CountsLine())
		if s.Mismatches > 0 {
			fmt.Fprintln(w, "  "+warningStyle.Render(fmt.Sprintf("%d slices placed by a label that disagrees with geometry", s.Mismatches)))
		}
		if n := len(s.Disagreements); n > 0 {
			fmt.Fprintln(w, "  "+warningStyle.Render(fmt.Sprintf("%d classifier disagreements", n)))
		}
	}

	if v := rec.Validation; v != nil {
		for _, pr := range v.Planes {
			line := pr.Line()
			if pr.Errors > 0 {
				line = errorStyle.Render(line)
			}
			fmt.Fprintln(w, "  "+line)
		}
	}

	if rec.Counts != nil {
		var parts []string
		for _, p := range plane.All() {
			parts = append(parts, labelStyle.Render(runlog.PlaneLabel(p))+fmt.Sprintf("%d", rec.Counts[p]))
		}
		fmt.Fprintln(w, "  "+strings.Join(parts, "  "))
	}

	for _, set := range rec.Shapes {
		line := labelStyle.Render(runlog.PlaneLabel(set.Plane)) + set.String()
		if len(set.Shapes) > 1 {
			line = warningStyle.Render(line)
		}
		fmt.Fprintln(w, "  "+line)
	}

	if rec.Err != nil {
		fmt.Fprintln(w, "  "+errorStyle.Render("failed: "+rec.Err.Error()))
	}
	fmt.Fprintln(w, separator())
}
