package event_fetcher

import (
	"strconv"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func numberedEntries(n int) []Entry {
	entries := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, Entry{Number: strconv.Itoa(i), Title: "Title " + strconv.Itoa(i)})
	}
	return entries
}

func numbers(entries []Entry) []string {
	var result []string
	for _, e := range entries {
		result = append(result, e.Number)
	}
	return result
}

func TestEntryFilterSelect(t *testing.T) {
	assert := assert_.New(t)
	entries := numberedEntries(10)

	selected, unmatched := ParseEntryFilter("5, 1,3").Select(entries)
	assert.Equal([]string{"1", "3", "5"}, numbers(selected))
	assert.Empty(unmatched)

	selected, unmatched = ParseEntryFilter("99").Select(entries)
	assert.Empty(selected)
	assert.Equal([]string{"99"}, unmatched)

	selected, unmatched = ParseEntryFilter("2,42,2,").Select(entries)
	assert.Equal([]string{"2"}, numbers(selected))
	assert.Equal([]string{"42"}, unmatched)
}

func TestEntryFilterUnset(t *testing.T) {
	assert := assert_.New(t)
	entries := numberedEntries(3)

	for _, s := range []string{"", " ", ",,"} {
		f := ParseEntryFilter(s)
		assert.False(f.IsSet())
		assert.True(f.Contains("anything"))
		selected, unmatched := f.Select(entries)
		assert.Equal([]string{"1", "2", "3"}, numbers(selected))
		assert.Empty(unmatched)
	}

	var zero EntryFilter
	assert.True(zero.Contains("1"))
}

func TestEntryFilterExactMatch(t *testing.T) {
	assert := assert_.New(t)
	f := ParseEntryFilter("01,1a")
	assert.False(f.Contains("1"))
	assert.True(f.Contains("01"))
	assert.True(f.Contains("1a"))
	assert.Equal([]string{"01", "1a"}, f.Requested())
	assert.Equal("01,1a", f.String())
}
