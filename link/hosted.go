package link

import (
	"strings"

	"github.com/alanbriolat/event-fetcher/generic"
)

// hostedMatcher recognises providers that have no short ID form, so the whole URL is the ID.
func hostedMatcher(kind Kind, hosts ...string) MatchFunc {
	return func(s string) (Descriptor, error) {
		u, err := parseHTTPURL(s)
		if err != nil {
			return Descriptor{}, err
		}
		if !hostIs(u, hosts...) {
			return Descriptor{}, ErrUnknownHostname
		}
		return Descriptor{Kind: kind, ID: generic.Some(strings.TrimSpace(s))}, nil
	}
}

func init() {
	DefaultRegistry.MustCreatePriority("onedrive", hostedMatcher(KindOneDrive, "1drv.ms", "onedrive.live.com"), PriorityHost)
	DefaultRegistry.MustCreatePriority("mediafire", hostedMatcher(KindMediaFire, "mediafire.com"), PriorityHost)
	DefaultRegistry.MustCreatePriority("mega", hostedMatcher(KindMega, "mega.nz", "mega.co.nz"), PriorityHost)
}
