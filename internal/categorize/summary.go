package categorize

import (
	"fmt"

	"github.com/Iron-Ham/ctsort/internal/label"
	"github.com/Iron-Ham/ctsort/internal/orientation"
	"github.com/Iron-Ham/ctsort/internal/plane"
	"github.com/Iron-Ham/ctsort/internal/reconcile"
	"github.com/Iron-Ham/ctsort/internal/recording"
)

// Summary is the outcome of categorizing one recording.
//
// Every candidate file lands in exactly one of four buckets, so
// Total == Success + MissingLabels + Skipped + Corrupt:
//
//   - Success: placed by a recognized label. Mismatches is a subset.
//   - MissingLabels: the label named no plane. The slice is still stored
//     under its geometric plane when one resolves.
//   - Skipped: orientation or description absent.
//   - Corrupt: the file could not be read or copied from.
//
// The first two come from the embedded reconcile.Tally.
type Summary struct {
	Recording recording.ID
	reconcile.Tally

	Total   int
	Skipped int
	Corrupt int

	// Stored counts successfully copied slices per plane.
	Stored map[plane.Plane]int
	// Frequencies holds the label tokens seen, scoped to this recording.
	Frequencies label.FrequencyTable
	// Disagreements lists cross-check results, empty unless cross-checking
	// is enabled.
	Disagreements []orientation.Disagreement
}

func newSummary(id recording.ID) *Summary {
	return &Summary{
		Recording:   id,
		Stored:      make(map[plane.Plane]int),
		Frequencies: label.NewFrequencyTable(),
	}
}

// CountsLine renders the counts the way they appear in log.txt.
func (s *Summary) CountsLine() string {
	return fmt.Sprintf("Total samples: %d Success: %d Errors: %d Missing Label: %d Skipped: %d Corrupt: %d",
		s.Total, s.Success(), s.Mismatches, s.MissingLabels, s.Skipped, s.Corrupt)
}

// FrequencyLine renders the label frequency table with sorted keys.
func (s *Summary) FrequencyLine() string {
	return "All series descriptions present: " + s.Frequencies.String()
}
