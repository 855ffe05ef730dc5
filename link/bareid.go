package link

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotBareID = errors.New("not a bare share ID")

// checkBareID accepts a trimmed string made only of URL-safe base64 characters, with length in [min, max].
//
// Bare IDs carry no provider information, so length is the only signal. An ID outside both the Google Drive and
// Dropbox ranges is left unclassified rather than guessed.
func checkBareID(s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNotBareID
	}
	for _, c := range s {
		if !isIDChar(c) {
			return "", fmt.Errorf("%w: unexpected character %q", ErrNotBareID, c)
		}
	}
	if len(s) < min || len(s) > max {
		return "", fmt.Errorf("%w: length %d not in [%d, %d]", ErrNotBareID, len(s), min, max)
	}
	return s, nil
}

func isIDChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
