package fetch

import (
	"mime"
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameBytes keeps names well inside the 255 byte limit of common filesystems, leaving room for the temporary
// file suffix.
const MaxFilenameBytes = 200

const safePunctuation = ".,()[]'!&+~-_ "

// SanitizeFilename replaces every character outside a conservative safe set with '_'. Letters and digits of any
// script are kept, so Japanese titles survive.
func SanitizeFilename(name string) string {
	name = norm.NFC.String(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		case r < utf8.RuneSelf && strings.ContainsRune(safePunctuation, r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := truncateUTF8(b.String(), MaxFilenameBytes)
	// Leading dots hide the file, trailing dots and spaces are stripped by Windows.
	s = strings.TrimLeft(s, ". ")
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return "_"
	}
	return s
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// FilenameFromDisposition extracts the suggested filename from a Content-Disposition header value. RFC 2231
// encoded names (filename*=UTF-8''...) are decoded.
func FilenameFromDisposition(header string) (string, error) {
	if header == "" {
		return "", ErrNoFilename
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return "", err
	}
	return cleanFilename(params["filename"])
}

// FilenameFromURL uses the last element of the URL path as a filename.
func FilenameFromURL(u *url.URL) (string, error) {
	if u == nil {
		return "", ErrNoFilename
	}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return "", ErrNoFilename
	}
	return cleanFilename(path.Base(p))
}

func cleanFilename(name string) (string, error) {
	// Some servers send Windows paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base(name))
	// Don't allow "filenames" that are just ".", "..", etc.
	if name == "" || name == "/" || strings.ReplaceAll(name, ".", "") == "" {
		return "", ErrNoFilename
	}
	return name, nil
}
