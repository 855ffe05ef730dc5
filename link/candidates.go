package link

import (
	event_fetcher "github.com/alanbriolat/event-fetcher"
)

// BuildCandidates classifies and canonicalises every link of an entry, in source order. Nothing is dropped, so
// annotations and unsupported links stay visible as unfetchable candidates. The second return value is false if the
// filter excludes the entry, in which case no candidates are returned.
func BuildCandidates(entry event_fetcher.Entry, filter event_fetcher.EntryFilter) ([]Candidate, bool) {
	if !filter.Contains(entry.Number) {
		return nil, false
	}
	candidates := make([]Candidate, 0, len(entry.Links))
	for _, raw := range entry.Links {
		candidates = append(candidates, Canonicalize(Classify(raw)))
	}
	return candidates, true
}

// Fetchable returns the candidates that have a canonical URL, preserving order.
func Fetchable(candidates []Candidate) []Candidate {
	return partition(candidates, true)
}

// Unfetchable returns the candidates without a canonical URL, preserving order.
func Unfetchable(candidates []Candidate) []Candidate {
	return partition(candidates, false)
}

func partition(candidates []Candidate, fetchable bool) []Candidate {
	var result []Candidate
	for _, c := range candidates {
		if c.Fetchable() == fetchable {
			result = append(result, c)
		}
	}
	return result
}
