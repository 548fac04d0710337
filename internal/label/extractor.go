// Package label derives an anatomical plane from a slice's free-text
// SeriesDescription.
//
// Descriptions vary between recordings: some spell the plane out (AXIAL,
// Coronal MPR), others abbreviate it (AX SCAN 3, SAG T2), and some name no
// plane at all (scout 3d). [Extract] resolves the first two kinds and counts
// every outcome in a caller-owned [FrequencyTable] for later review.
package label

import (
	"strings"

	"github.com/Iron-Ham/ctsort/internal/plane"
)

// fullTokens are matched first, in this order.
var fullTokens = []struct {
	token string
	plane plane.Plane
}{
	{"axial", plane.Axial},
	{"coronal", plane.Coronal},
	{"sagittal", plane.Sagittal},
}

// abbreviations are only consulted when no full token matched.
var abbreviations = []struct {
	token string
	plane plane.Plane
}{
	{"ax", plane.Axial},
	{"cor", plane.Coronal},
	{"sag", plane.Sagittal},
}

// Extract returns the plane named by description, matching case-insensitively
// by substring. The matched token (full name or abbreviation) is counted in
// freq. When nothing matches, the full lowercased description is counted and
// plane.Invalid is returned.
func Extract(description string, freq FrequencyTable) plane.Plane {
	lower := strings.ToLower(description)

	for _, t := range fullTokens {
		if strings.Contains(lower, t.token) {
			freq.Inc(t.token)
			return t.plane
		}
	}

	for _, t := range abbreviations {
		if strings.Contains(lower, t.token) {
			freq.Inc(t.token)
			return t.plane
		}
	}

	freq.Inc(lower)
	return plane.Invalid
}
