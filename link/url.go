package link

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/alanbriolat/event-fetcher/generic"
)

var (
	ErrNotURL          = errors.New("not an absolute http(s) URL")
	ErrUnknownHostname = errors.New("unrecognised hostname")
	ErrNoShareID       = errors.New("could not extract share ID")
)

var protocols = generic.NewSet("http", "https")

// parseHTTPURL accepts only absolute http(s) URLs with a hostname.
func parseHTTPURL(s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " \t\r\n") {
		return nil, ErrNotURL
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotURL, err)
	}
	if !protocols.Contains(strings.ToLower(u.Scheme)) {
		return nil, fmt.Errorf("%w: unknown URL scheme %q", ErrNotURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing hostname", ErrNotURL)
	}
	return u, nil
}

// hostIs returns true if the URL's hostname is one of hosts, or a subdomain of one.
func hostIs(u *url.URL, hosts ...string) bool {
	hostname := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		if hostname == h || strings.HasSuffix(hostname, "."+h) {
			return true
		}
	}
	return false
}

// pathSegments splits the URL path into its non-empty elements.
func pathSegments(u *url.URL) []string {
	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// segmentAfter finds the prefix sequence anywhere in segments and returns the segment following it.
func segmentAfter(segments []string, prefix ...string) string {
	for i := 0; i+len(prefix) < len(segments); i++ {
		found := true
		for j, p := range prefix {
			if segments[i+j] != p {
				found = false
				break
			}
		}
		if found {
			return segments[i+len(prefix)]
		}
	}
	return ""
}

// A shape is one known URL layout for a provider, tried in a fixed order.
type shape struct {
	name    string
	hosts   []string
	extract func(u *url.URL) string
}

// extractShareID tries each shape in order and returns the first non-empty ID.
func extractShareID(u *url.URL, shapes []shape) (string, error) {
	for _, s := range shapes {
		if !hostIs(u, s.hosts...) {
			continue
		}
		if id := s.extract(u); id != "" {
			return id, nil
		}
	}
	return "", ErrNoShareID
}
