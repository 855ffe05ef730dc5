package link

import (
	"net/url"

	"github.com/alanbriolat/event-fetcher/generic"
)

const (
	dropboxHost            = "dropbox.com"
	dropboxUserContentHost = "dropboxusercontent.com"
)

// Dropbox share IDs are shorter than Google Drive IDs; this range is a heuristic for bare IDs only.
const (
	dropboxIDMinLength = 15
	dropboxIDMaxLength = 22
)

// Allowed URL formats, in priority order:
//		https://www.dropbox.com/s/{ID}/{filename}
//		https://www.dropbox.com/scl/fi/{ID}/{filename}
//		https://www.dropbox.com/scl/fo/{ID}/{filename}
//		https://dl.dropboxusercontent.com/scl/fi/{ID}/{filename}
var dropboxShapes = []shape{
	{
		name:  "s",
		hosts: []string{dropboxHost, dropboxUserContentHost},
		extract: func(u *url.URL) string {
			return leadingSegmentAfter(u, "s")
		},
	},
	{
		name:  "scl/fi",
		hosts: []string{dropboxHost},
		extract: func(u *url.URL) string {
			return leadingSegmentAfter(u, "scl", "fi")
		},
	},
	{
		name:  "scl/fo",
		hosts: []string{dropboxHost},
		extract: func(u *url.URL) string {
			return leadingSegmentAfter(u, "scl", "fo")
		},
	},
	{
		name:  "usercontent scl/fi",
		hosts: []string{dropboxUserContentHost},
		extract: func(u *url.URL) string {
			return leadingSegmentAfter(u, "scl", "fi")
		},
	},
}

// leadingSegmentAfter is like segmentAfter, but the prefix must start the path.
func leadingSegmentAfter(u *url.URL, prefix ...string) string {
	segments := pathSegments(u)
	if len(segments) <= len(prefix) {
		return ""
	}
	for i, p := range prefix {
		if segments[i] != p {
			return ""
		}
	}
	return segments[len(prefix)]
}

func matchDropbox(s string) (Descriptor, error) {
	u, err := parseHTTPURL(s)
	if err != nil {
		return Descriptor{}, err
	}
	if !hostIs(u, dropboxHost, dropboxUserContentHost) {
		return Descriptor{}, ErrUnknownHostname
	}
	id, err := extractShareID(u, dropboxShapes)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Kind: KindDropbox, ID: generic.Some(id)}, nil
}

func matchDropboxID(s string) (Descriptor, error) {
	id, err := checkBareID(s, dropboxIDMinLength, dropboxIDMaxLength)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Kind: KindDropbox, ID: generic.Some(id)}, nil
}

func init() {
	DefaultRegistry.MustCreatePriority("dropbox", matchDropbox, PriorityHost)
	DefaultRegistry.MustCreatePriority("dropbox-id", matchDropboxID, PriorityDefault)
}
