// Package session drives a run: every selected entry goes through selection and download, and the results are
// collected into a Summary.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	event_fetcher "github.com/alanbriolat/event-fetcher"
	"github.com/alanbriolat/event-fetcher/async"
	"github.com/alanbriolat/event-fetcher/fetch"
	"github.com/alanbriolat/event-fetcher/internal/sync_"
	"github.com/alanbriolat/event-fetcher/link"
	"github.com/alanbriolat/event-fetcher/selection"
)

const interruptedReason = "interrupted"

// A Fetcher downloads one chosen candidate. *fetch.Executor is the real implementation.
type Fetcher interface {
	Fetch(ctx context.Context, number string, c link.Candidate, dest string) event_fetcher.DownloadResult
}

type Config struct {
	event_fetcher.RunConfig
	// Prompter is required in interactive mode.
	Prompter selection.Prompter
	// Fetcher defaults to a *fetch.Executor built from RunConfig.
	Fetcher Fetcher
	// Progress, if set, is given to the default Fetcher only when entries are processed one at a time.
	Progress fetch.ProgressFunc
}

type Session struct {
	config  Config
	filter  event_fetcher.EntryFilter
	engine  selection.Engine
	fetcher Fetcher
}

func New(ctx context.Context, config Config) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Interactive && config.Prompter == nil {
		return nil, &event_fetcher.ConfigurationError{Op: "configure session", Err: event_fetcher.ErrNotInteractive}
	}
	s := &Session{
		config: config,
		filter: config.EntryFilter(),
		engine: selection.Engine{Interactive: config.Interactive, Prompter: config.Prompter},
	}
	s.fetcher = config.Fetcher
	if s.fetcher == nil {
		s.fetcher = fetch.New(s.fetchOptions()...)
	}
	event_fetcher.Logger(ctx).Debug("session configured",
		zap.String("output", config.OutputDir),
		zap.Bool("interactive", config.Interactive),
		zap.Int("parallelism", s.parallelism()),
		zap.Stringer("entries", s.filter),
	)
	return s, nil
}

func (s *Session) fetchOptions() []fetch.Option {
	opts := []fetch.Option{
		fetch.WithRetries(s.config.Retries),
		fetch.WithRetryDelay(s.config.RetryDelay),
		fetch.WithTimeout(s.config.Timeout),
		fetch.WithUserAgent(s.config.UserAgent),
	}
	if s.config.Progress != nil && s.parallelism() == 1 {
		opts = append(opts, fetch.WithProgress(s.config.Progress))
	}
	return opts
}

// parallelism is 1 in interactive mode, since prompts read from a single input.
func (s *Session) parallelism() int {
	if s.config.Interactive {
		return 1
	}
	return s.config.Parallelism
}

// Run processes the entries that pass the filter. Per-entry failures are part of the Summary; the error is only for
// a failure that stops the whole run, either a *ConfigurationError before anything starts or ctx being done. When
// interrupted, the partial Summary is still returned, with entries that never started marked as skipped.
func (s *Session) Run(ctx context.Context, entries []event_fetcher.Entry) (*Summary, error) {
	logger := event_fetcher.Logger(ctx)

	if err := prepareOutputDir(s.config.OutputDir); err != nil {
		return nil, err
	}

	selected, unmatched := s.filter.Select(entries)
	if len(unmatched) > 0 {
		logger.Warn("requested entries not found", zap.Strings("entries", unmatched))
	}
	logger.Info("processing entries", zap.Int("selected", len(selected)), zap.Int("total", len(entries)))

	initial := make([]event_fetcher.DownloadResult, len(selected))
	for i, e := range selected {
		initial[i] = event_fetcher.Skipped(e.Number, interruptedReason)
	}
	results := sync_.NewMutexed(initial)
	process := func(ctx context.Context, i int) {
		result := s.processEntry(ctx, selected[i])
		_ = results.Locked(func(r *[]event_fetcher.DownloadResult) error {
			(*r)[i] = result
			return nil
		})
	}

	if s.parallelism() == 1 {
		for i := range selected {
			if ctx.Err() != nil {
				break
			}
			process(ctx, i)
		}
	} else {
		_ = async.ForEach(ctx, s.parallelism(), len(selected), process)
	}

	summary := &Summary{Results: results.Get(), Unmatched: unmatched}
	counts := summary.Counts()
	logger.Info("run complete", zap.Int("success", counts.Success), zap.Int("skipped", counts.Skipped), zap.Int("failed", counts.Failed))
	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run interrupted: %w", err)
	}
	return summary, nil
}

func (s *Session) processEntry(ctx context.Context, entry event_fetcher.Entry) event_fetcher.DownloadResult {
	logger := event_fetcher.Logger(ctx).With(zap.String("entry", entry.Number))

	candidates, _ := link.BuildCandidates(entry, s.filter)
	decision := s.engine.Decide(ctx, entry, candidates)
	if ctx.Err() != nil {
		return event_fetcher.Skipped(entry.Number, interruptedReason)
	}
	if decision.Skip() {
		result := decision.Result()
		logger.Info("skipping entry", zap.String("reason", result.Reason))
		return result
	}
	chosen := decision.Chosen.Unwrap()

	name, err := s.config.TargetName(entry)
	if err != nil {
		logger.Warn("failed to render filename", zap.String("url", chosen.URL()), zap.Error(err))
		result := event_fetcher.Failed(entry.Number, fmt.Errorf("failed to render filename: %w", err))
		result.URL = chosen.URL()
		return result
	}
	dest := filepath.Join(s.config.OutputDir, fetch.SanitizeFilename(name))
	logger.Info("downloading", zap.Stringer("candidate", chosen), zap.String("path", dest))
	return s.fetcher.Fetch(ctx, entry.Number, chosen, dest)
}

// prepareOutputDir creates the output directory and checks that it is writable.
func prepareOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &event_fetcher.ConfigurationError{Op: "create output directory", Path: dir, Err: err}
	}
	probe, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return &event_fetcher.ConfigurationError{Op: "write to output directory", Path: dir, Err: err}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}
