package link

import (
	"net/url"
	"strings"

	"github.com/alanbriolat/event-fetcher/generic"
)

const (
	googleDriveDownloadURL = "https://drive.google.com/uc?export=download&id="
	dropboxDownloadPrefix  = "https://www.dropbox.com/s/"
	dropboxDownloadSuffix  = "/file?dl=1"
)

// Canonicalize derives the direct-download URL for a Descriptor. It is pure: the same Descriptor always gives the
// same Candidate, and no network access happens here.
func Canonicalize(d Descriptor) Candidate {
	c := Candidate{Descriptor: d}
	switch d.Kind {
	case KindGoogleDrive:
		if id, ok := d.ID.Get(); ok {
			c.CanonicalURL = generic.Some(googleDriveDownloadURL + url.QueryEscape(id))
		}
	case KindDropbox:
		if id, ok := d.ID.Get(); ok {
			c.CanonicalURL = generic.Some(dropboxDownloadPrefix + url.PathEscape(id) + dropboxDownloadSuffix)
		}
	case KindOneDrive, KindMediaFire, KindDirect:
		c.CanonicalURL = generic.Some(strings.TrimSpace(d.Raw))
	case KindMega, KindUnknown:
		// Mega needs client-side decryption; Unknown has nothing to fetch.
	}
	return c
}
