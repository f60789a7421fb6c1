// Package debugmap implements the bidirectional offset<->source-line
// lookup table a compiler emits alongside an .avm artifact.
package debugmap

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Entry is one contiguous range of bytecode attributed to a single source
// location. Entries must not overlap.
type Entry struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	URL    string `json:"url"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// DebugMap is the loaded, sorted-by-start debug map for one or more source
// files (a compiler may emit entries spanning multiple compilation units).
type DebugMap struct {
	entries []Entry
}

// Load parses the JSON debug-map document at raw (the contents of a
// .debug.json file, per §6) into a DebugMap sorted by Start.
func Load(raw []byte) (*DebugMap, error) {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "parse debug map")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })
	for i := 1; i < len(entries); i++ {
		if entries[i].Start < entries[i-1].End {
			return nil, fmt.Errorf("debug map entries overlap: [%d,%d) and [%d,%d)",
				entries[i-1].Start, entries[i-1].End, entries[i].Start, entries[i].End)
		}
	}
	return &DebugMap{entries: entries}, nil
}

// Entries returns the sorted entry list. Callers must not modify it.
func (m *DebugMap) Entries() []Entry { return m.entries }

// Files returns the distinct source URLs referenced by the map, in the
// order they were first seen, tolerating the multi-compilation-unit case.
func (m *DebugMap) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, e := range m.entries {
		if !seen[e.URL] {
			seen[e.URL] = true
			files = append(files, e.URL)
		}
	}
	return files
}

// ResolveLine returns the source line of the unique entry containing ofs,
// or -1 if ofs isn't covered by any entry. O(log n) via binary search over
// entries sorted by Start, checking containment.
func (m *DebugMap) ResolveLine(ofs int) int {
	i := m.entryIndexContaining(ofs)
	if i < 0 {
		return -1
	}
	return m.entries[i].Line
}

// ResolveURL returns the source file URL of the entry containing ofs, or
// "" if none.
func (m *DebugMap) ResolveURL(ofs int) string {
	i := m.entryIndexContaining(ofs)
	if i < 0 {
		return ""
	}
	return m.entries[i].URL
}

// ResolveOffset returns the smallest Start of any entry with the given
// line, or -1 if no entry maps to that line.
func (m *DebugMap) ResolveOffset(line int) int {
	best := -1
	for _, e := range m.entries {
		if e.Line == line && (best == -1 || e.Start < best) {
			best = e.Start
		}
	}
	return best
}

// entryIndexContaining finds the entry whose [Start, End) range contains
// ofs via binary search over the sorted Start values.
func (m *DebugMap) entryIndexContaining(ofs int) int {
	lo, hi := 0, len(m.entries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		e := m.entries[mid]
		switch {
		case ofs < e.Start:
			hi = mid - 1
		case ofs >= e.End:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
