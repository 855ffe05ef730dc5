// Package link classifies raw link strings from event entries and turns them into fetchable candidates.
package link

import (
	"fmt"
	"strings"

	"github.com/alanbriolat/event-fetcher/generic"
)

// Kind is the closed set of link providers. Adding a provider means adding a Kind, a matcher, and a case in
// Canonicalize (and in the fetch strategy switch).
type Kind int

const (
	KindUnknown Kind = iota
	KindDirect
	KindGoogleDrive
	KindDropbox
	KindOneDrive
	KindMediaFire
	KindMega
)

var kindNames = map[Kind]string{
	KindUnknown:     "Unknown",
	KindDirect:      "Direct",
	KindGoogleDrive: "GoogleDrive",
	KindDropbox:     "Dropbox",
	KindOneDrive:    "OneDrive",
	KindMediaFire:   "MediaFire",
	KindMega:        "Mega",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Descriptor is the classification of one raw link string.
type Descriptor struct {
	Kind Kind
	// Raw is the input string, unmodified.
	Raw string
	// ID is the provider share ID, or for providers without a short form, the full URL.
	ID generic.Option[string]
}

func (d Descriptor) String() string {
	if id, ok := d.ID.Get(); ok {
		return fmt.Sprintf("%v(%s)", d.Kind, id)
	}
	return fmt.Sprintf("%v(%q)", d.Kind, d.Raw)
}

// A Candidate is a classified link together with how to fetch it. CanonicalURL is set if and only if the candidate
// is fetchable.
type Candidate struct {
	Descriptor
	CanonicalURL generic.Option[string]
}

func (c Candidate) Fetchable() bool {
	return c.CanonicalURL.IsSome()
}

// URL returns the canonical URL, or "" if the candidate is not fetchable.
func (c Candidate) URL() string {
	return c.CanonicalURL.UnwrapOrDefault()
}

func (c Candidate) String() string {
	if u, ok := c.CanonicalURL.Get(); ok {
		return fmt.Sprintf("[%v] %s", c.Kind, u)
	}
	return fmt.Sprintf("[%v] %s (not fetchable)", c.Kind, strings.TrimSpace(c.Raw))
}
