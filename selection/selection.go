// Package selection decides, for each entry, which candidate (if any) to download.
package selection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	event_fetcher "github.com/alanbriolat/event-fetcher"
	"github.com/alanbriolat/event-fetcher/generic"
	"github.com/alanbriolat/event-fetcher/link"
)

type Reason int

const (
	ReasonAutoSingle Reason = iota
	ReasonUserChosen
	ReasonUserSkipped
	ReasonNoCandidates
	ReasonNonInteractiveAmbiguous
)

func (r Reason) String() string {
	switch r {
	case ReasonAutoSingle:
		return "single candidate"
	case ReasonUserChosen:
		return "chosen by user"
	case ReasonUserSkipped:
		return "skipped by user"
	case ReasonNoCandidates:
		return "no fetchable candidates"
	case ReasonNonInteractiveAmbiguous:
		return "multiple candidates, re-run with --interactive to choose"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// A Decision is the resolved selection for one entry.
type Decision struct {
	EntryNumber string
	Chosen      generic.Option[link.Candidate]
	Reason      Reason
	// Unfetchable candidates of the entry, kept for reporting.
	Unfetchable []link.Candidate
}

// Skip returns true if nothing should be downloaded.
func (d Decision) Skip() bool {
	return d.Chosen.IsNone()
}

// Result converts a skip decision into the entry's final result. It must not be called for a chosen candidate.
func (d Decision) Result() event_fetcher.DownloadResult {
	reason := d.Reason.String()
	if d.Reason == ReasonNoCandidates && len(d.Unfetchable) > 0 {
		reason = fmt.Sprintf("%s (%d unsupported: %s)", reason, len(d.Unfetchable), describe(d.Unfetchable))
	}
	return event_fetcher.Skipped(d.EntryNumber, reason)
}

// A Prompter asks the operator to choose between candidates. It returns None to skip the entry.
type Prompter interface {
	SelectFromCandidates(ctx context.Context, entry event_fetcher.Entry, candidates []link.Candidate) (generic.Option[int], error)
}

// Engine runs the per-entry selection state machine.
type Engine struct {
	Interactive bool
	// Prompter is only consulted in interactive mode, for entries with more than one fetchable candidate.
	Prompter Prompter
}

// Decide picks a candidate for an entry. Only an interactive prompt for an ambiguous entry can block.
func (e *Engine) Decide(ctx context.Context, entry event_fetcher.Entry, candidates []link.Candidate) Decision {
	logger := event_fetcher.Logger(ctx).With(zap.String("entry", entry.Number))
	fetchable := link.Fetchable(candidates)
	decision := Decision{EntryNumber: entry.Number, Unfetchable: link.Unfetchable(candidates)}

	switch {
	case len(fetchable) == 0:
		decision.Reason = ReasonNoCandidates
		if len(decision.Unfetchable) > 0 {
			logger.Info("no fetchable candidates", zap.String("title", entry.Title), zap.Strings("links", raws(decision.Unfetchable)))
		} else {
			logger.Info("no links", zap.String("title", entry.Title))
		}
	case len(fetchable) == 1:
		decision.Reason = ReasonAutoSingle
		decision.Chosen = generic.Some(fetchable[0])
		logger.Debug("auto-selected single candidate", zap.Stringer("candidate", fetchable[0]))
	case !e.Interactive || e.Prompter == nil:
		decision.Reason = ReasonNonInteractiveAmbiguous
		logger.Warn("multiple candidates, skipping; re-run with --interactive to choose",
			zap.String("title", entry.Title),
			zap.Strings("urls", urls(fetchable)),
		)
	default:
		choice, err := e.Prompter.SelectFromCandidates(ctx, entry, fetchable)
		if err != nil {
			logger.Warn("prompt failed, skipping", zap.Error(err))
		}
		if i, ok := choice.Get(); ok && err == nil && i >= 0 && i < len(fetchable) {
			decision.Reason = ReasonUserChosen
			decision.Chosen = generic.Some(fetchable[i])
			logger.Debug("user selected candidate", zap.Stringer("candidate", fetchable[i]))
		} else {
			decision.Reason = ReasonUserSkipped
		}
	}
	return decision
}

func urls(candidates []link.Candidate) []string {
	result := make([]string, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.URL())
	}
	return result
}

func raws(candidates []link.Candidate) []string {
	result := make([]string, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.Raw)
	}
	return result
}

func describe(candidates []link.Candidate) string {
	s := ""
	for i, c := range candidates {
		if i > 0 {
			s += "; "
		}
		s += c.String()
	}
	return s
}
