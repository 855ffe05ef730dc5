package event_fetcher

import (
	"strings"

	"github.com/alanbriolat/event-fetcher/generic"
)

// An EntryFilter restricts a run to specific entry numbers, matched by exact string equality. The zero value
// matches every entry.
type EntryFilter struct {
	numbers   generic.Set[string]
	requested []string
}

// ParseEntryFilter parses a comma-separated list of entry numbers. Blank items are ignored, and an empty or blank
// string gives a filter that matches everything.
func ParseEntryFilter(s string) EntryFilter {
	var f EntryFilter
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if f.numbers == nil {
			f.numbers = generic.NewSet[string]()
		}
		if f.numbers.Add(item) {
			f.requested = append(f.requested, item)
		}
	}
	return f
}

// IsSet returns true if the filter restricts entries at all.
func (f EntryFilter) IsSet() bool {
	return f.numbers != nil
}

// Contains returns true if an entry with this number passes the filter.
func (f EntryFilter) Contains(number string) bool {
	return !f.IsSet() || f.numbers.Contains(number)
}

// Requested returns the requested numbers in the order they were given.
func (f EntryFilter) Requested() []string {
	return append([]string(nil), f.requested...)
}

func (f EntryFilter) String() string {
	return strings.Join(f.requested, ",")
}

// Select returns the entries that pass the filter in their original order, along with any requested numbers that
// matched no entry.
func (f EntryFilter) Select(entries []Entry) (selected []Entry, unmatched []string) {
	if !f.IsSet() {
		return append([]Entry(nil), entries...), nil
	}
	seen := generic.NewSet[string]()
	for _, e := range entries {
		if f.numbers.Contains(e.Number) {
			selected = append(selected, e)
			seen.Add(e.Number)
		}
	}
	for _, n := range f.requested {
		if !seen.Contains(n) {
			unmatched = append(unmatched, n)
		}
	}
	return selected, unmatched
}
