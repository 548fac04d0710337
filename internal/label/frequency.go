package label

import (
	"fmt"
	"sort"
	"strings"
)

// FrequencyTable counts how often each label token was seen. Keys are either
// a recognized token ("axial", "ax", ...) or a raw lowercased description
// that matched nothing. A table is scoped to one recording, or to one plane
// directory during validation; it is never shared process-wide.
type FrequencyTable map[string]int

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() FrequencyTable {
	return make(FrequencyTable)
}

// Inc increments the counter for key.
func (f FrequencyTable) Inc(key string) {
	f[key]++
}

// Count returns the counter for key, zero if unseen.
func (f FrequencyTable) Count(key string) int {
	return f[key]
}

// Total returns the sum of all counters.
func (f FrequencyTable) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// Keys returns the keys in lexical order.
func (f FrequencyTable) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the table with sorted keys so that log output is stable
// across runs, e.g. {'ax': 3, 'scout 3d': 1}.
func (f FrequencyTable) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "'%s': %d", k, f[k])
	}
	sb.WriteByte('}')
	return sb.String()
}
