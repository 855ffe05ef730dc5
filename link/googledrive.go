package link

import (
	"net/url"
	"strings"

	"github.com/alanbriolat/event-fetcher/generic"
)

var googleDriveHosts = []string{"drive.google.com", "drive.usercontent.google.com"}

// Google Drive IDs are long; this range is a heuristic for bare IDs only.
const (
	googleDriveIDMinLength = 28
	googleDriveIDMaxLength = 44
)

// Allowed URL formats, in priority order:
//		https://drive.google.com/file/d/{ID}/view
//		https://drive.google.com/uc?export=download&id={ID}  (also /open?id={ID})
//		https://drive.usercontent.google.com/download?id={ID}
//		https://drive.usercontent.google.com/u/0/uc?id={ID}
var googleDriveShapes = []shape{
	{
		name:  "file/d",
		hosts: googleDriveHosts,
		extract: func(u *url.URL) string {
			return segmentAfter(pathSegments(u), "file", "d")
		},
	},
	{
		name:  "uc?id",
		hosts: googleDriveHosts,
		extract: func(u *url.URL) string {
			if u.Path == "/uc" || u.Path == "/open" {
				return u.Query().Get("id")
			}
			return ""
		},
	},
	{
		name:  "download?id",
		hosts: googleDriveHosts,
		extract: func(u *url.URL) string {
			if strings.TrimSuffix(u.Path, "/") == "/download" {
				return u.Query().Get("id")
			}
			return ""
		},
	},
	{
		name:  "u/N/uc?id",
		hosts: googleDriveHosts,
		extract: func(u *url.URL) string {
			segments := pathSegments(u)
			if len(segments) == 3 && segments[0] == "u" && isDigits(segments[1]) && segments[2] == "uc" {
				return u.Query().Get("id")
			}
			return ""
		},
	},
}

func matchGoogleDrive(s string) (Descriptor, error) {
	u, err := parseHTTPURL(s)
	if err != nil {
		return Descriptor{}, err
	}
	if !hostIs(u, googleDriveHosts...) {
		return Descriptor{}, ErrUnknownHostname
	}
	id, err := extractShareID(u, googleDriveShapes)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Kind: KindGoogleDrive, ID: generic.Some(id)}, nil
}

func matchGoogleDriveID(s string) (Descriptor, error) {
	id, err := checkBareID(s, googleDriveIDMinLength, googleDriveIDMaxLength)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Kind: KindGoogleDrive, ID: generic.Some(id)}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func init() {
	DefaultRegistry.MustCreatePriority("google-drive", matchGoogleDrive, PriorityHost)
	DefaultRegistry.MustCreatePriority("google-drive-id", matchGoogleDriveID, PriorityDefault)
}
