package link

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/alanbriolat/event-fetcher/generic"
)

var (
	ErrDuplicateMatcher = errors.New("duplicate matcher name")
	ErrInvalidMatcher   = errors.New("invalid matcher")
	ErrNoMatch          = errors.New("no matcher matched the input")
)

var (
	PriorityHighest int16 = math.MinInt16
	// PriorityHost is for matchers recognising a provider hostname, which must run before anything more generic.
	PriorityHost    int16 = -100
	PriorityDefault int16 = 0
	PriorityLowest  int16 = math.MaxInt16
)

// A MatchFunc returns the Descriptor for a raw string it recognises, or an error describing why it doesn't.
type MatchFunc = func(raw string) (Descriptor, error)

// A Matcher recognises one shape of link.
type Matcher struct {
	Name  string
	Match MatchFunc
	// Priority of the matcher, lower (including negative) means matching earlier.
	Priority int16
}

// A Match is the result of a Matcher successfully classifying a string.
type Match struct {
	MatcherName string
	Descriptor  Descriptor
}

// A Registry is an ordered collection of Matcher instances; the first one to accept a string classifies it.
type Registry struct {
	matchers   []*Matcher
	matcherMap map[string]*Matcher
}

// Add registers a Matcher. Matcher.Name and Matcher.Match must be set, and Matcher.Name must be unique within the
// Registry.
func (r *Registry) Add(m Matcher) error {
	if r.matcherMap == nil {
		r.matcherMap = make(map[string]*Matcher)
	}
	if m.Name == "" || m.Match == nil {
		return ErrInvalidMatcher
	}
	if _, ok := r.matcherMap[m.Name]; ok {
		return ErrDuplicateMatcher
	}
	r.matcherMap[m.Name] = &m
	r.matchers = append(r.matchers, r.matcherMap[m.Name])
	r.sortByPriority()
	return nil
}

// CreatePriority is a shortcut for Add(Matcher{Name: ..., Match: ..., Priority: ...}).
func (r *Registry) CreatePriority(name string, f MatchFunc, priority int16) error {
	return r.Add(Matcher{
		Name:     name,
		Match:    f,
		Priority: priority,
	})
}

// MustCreatePriority wraps CreatePriority but panics if there is an error.
func (r *Registry) MustCreatePriority(name string, f MatchFunc, priority int16) {
	generic.Unwrap_(r.CreatePriority(name, f, priority))
}

// List returns the names of registered matchers in priority order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.matchers))
	for _, m := range r.matchers {
		names = append(names, m.Name)
	}
	return names
}

// Match a string against each Matcher in priority order. If nothing matches, the error collects every matcher's
// reason for rejecting it.
func (r *Registry) Match(s string) (*Match, error) {
	var result error
	for _, m := range r.matchers {
		if d, err := m.Match(s); err == nil {
			d.Raw = s
			return &Match{MatcherName: m.Name, Descriptor: d}, nil
		} else {
			result = multierror.Append(result, multierror.Prefix(err, fmt.Sprintf("[%v]", m.Name)))
		}
	}
	if result == nil {
		result = ErrNoMatch
	}
	return nil, result
}

// Classify is total: a string no matcher accepts is KindUnknown.
func (r *Registry) Classify(s string) Descriptor {
	if match, err := r.Match(s); err == nil {
		return match.Descriptor
	}
	return Descriptor{Kind: KindUnknown, Raw: s}
}

func (r *Registry) sortByPriority() {
	sort.SliceStable(r.matchers, func(i, j int) bool {
		return r.matchers[i].Priority < r.matchers[j].Priority
	})
}

// DefaultRegistry holds every built-in matcher, registered by init() in this package.
var DefaultRegistry Registry

// Classify a raw link string using DefaultRegistry.
func Classify(raw string) Descriptor {
	return DefaultRegistry.Classify(raw)
}
