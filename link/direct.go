package link

func matchDirect(s string) (Descriptor, error) {
	if _, err := parseHTTPURL(s); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Kind: KindDirect}, nil
}

func init() {
	// Any other http(s) URL, so it must be tried last.
	DefaultRegistry.MustCreatePriority("direct", matchDirect, PriorityLowest)
}
