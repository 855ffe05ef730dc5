package event_fetcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/alanbriolat/event-fetcher/generic"
)

// An Entry is one work record of an event, as produced by the table scraper. It is never modified after loading.
type Entry struct {
	Number string
	Author string
	Title  string
	Team   generic.Option[string]
	Size   generic.Option[string]
	// Links are raw candidate locations in source order: URLs, bare share IDs, or free-text annotations.
	Links []string
}

func (e Entry) String() string {
	return fmt.Sprintf("#%s - %s", e.Number, e.Title)
}

// An Event is the full set of entries from one event file, in file order.
type Event struct {
	Entries []Entry
}

// entryRecord accepts both the scraper's short keys and the descriptive ones.
type entryRecord struct {
	No     string   `toml:"no"`
	Number string   `toml:"number"`
	Name   string   `toml:"name"`
	Author string   `toml:"author"`
	Team   string   `toml:"team"`
	Title  string   `toml:"title"`
	Size   string   `toml:"size"`
	Addr   []string `toml:"addr"`
	Links  []string `toml:"links"`
}

type eventFile struct {
	Entries []entryRecord `toml:"entries"`
}

func (r entryRecord) entry() Entry {
	e := Entry{
		Number: firstNonEmpty(r.Number, r.No),
		Author: firstNonEmpty(r.Author, r.Name),
		Title:  strings.TrimSpace(r.Title),
		Team:   optionalString(r.Team),
		Size:   optionalString(r.Size),
	}
	links := r.Links
	if len(links) == 0 {
		links = r.Addr
	}
	e.Links = append([]string(nil), links...)
	return e
}

// ParseEvent decodes event file content.
func ParseEvent(data string) (*Event, error) {
	var file eventFile
	if _, err := toml.Decode(data, &file); err != nil {
		return nil, err
	}
	event := &Event{Entries: make([]Entry, 0, len(file.Entries))}
	for i, record := range file.Entries {
		e := record.entry()
		if e.Number == "" {
			return nil, fmt.Errorf("entry %d: missing number", i+1)
		}
		event.Entries = append(event.Entries, e)
	}
	return event, nil
}

// LoadEvent reads and decodes an event file. All failures are a *ConfigurationError.
func LoadEvent(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Op: "read event file", Path: path, Err: err}
	}
	event, err := ParseEvent(string(data))
	if err != nil {
		return nil, &ConfigurationError{Op: "parse event file", Path: path, Err: err}
	}
	return event, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func optionalString(s string) generic.Option[string] {
	s = strings.TrimSpace(s)
	return generic.SomeIf(s, s != "")
}
