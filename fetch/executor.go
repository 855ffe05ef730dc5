// Package fetch downloads a chosen candidate to its destination file.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	event_fetcher "github.com/alanbriolat/event-fetcher"
	"github.com/alanbriolat/event-fetcher/link"
)

// Executor downloads candidates, retrying transient failures a bounded number of times.
type Executor struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
	timeout    time.Duration
	userAgent  string
	progress   ProgressFunc
}

type Option func(*Executor)

// WithClient sets the HTTP client. Its Timeout should be zero; per-attempt limits come from WithTimeout.
func WithClient(client *http.Client) Option {
	return func(e *Executor) { e.client = client }
}

// WithRetries sets how many extra attempts a candidate gets after a retryable failure.
func WithRetries(n int) Option {
	return func(e *Executor) { e.retries = n }
}

func WithRetryDelay(d time.Duration) Option {
	return func(e *Executor) { e.retryDelay = d }
}

// WithTimeout bounds each attempt, including reading the whole body. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(e *Executor) { e.userAgent = ua }
}

func WithProgress(f ProgressFunc) Option {
	return func(e *Executor) { e.progress = f }
}

func New(opts ...Option) *Executor {
	defaults := event_fetcher.DefaultRunConfig()
	e := &Executor{
		client:     &http.Client{},
		retries:    defaults.Retries,
		retryDelay: defaults.RetryDelay,
		timeout:    defaults.Timeout,
		userAgent:  defaults.UserAgent,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.retries < 0 {
		e.retries = 0
	}
	return e
}

// Fetch downloads c to dest. Failed attempts never leave anything at dest, and the result is Success only once the
// whole body is on disk.
func (e *Executor) Fetch(ctx context.Context, number string, c link.Candidate, dest string) event_fetcher.DownloadResult {
	logger := event_fetcher.Logger(ctx).With(zap.String("entry", number), zap.String("url", c.URL()))

	if !c.Fetchable() {
		result := event_fetcher.Failed(number, fmt.Errorf("%w: %v", ErrNotFetchable, c))
		result.URL = c.Raw
		return result
	}

	var errs error
	for attempt := 1; attempt <= e.retries+1; attempt++ {
		if attempt > 1 {
			logger.Info("retrying download", zap.Int("attempt", attempt), zap.Duration("delay", e.retryDelay))
			if err := sleepContext(ctx, e.retryDelay); err != nil {
				errs = multierror.Append(errs, err)
				break
			}
		}
		result, err := e.attempt(ctx, number, c, dest)
		if err == nil {
			logger.Info("download complete", zap.String("path", dest), zap.Int64("bytes", result.Bytes), zap.String("type", result.FileType))
			if !IsArchive(result.FileType) {
				logger.Warn("downloaded file does not look like an archive", zap.String("path", dest), zap.String("type", result.FileType))
			}
			return result
		}
		errs = multierror.Append(errs, fmt.Errorf("attempt %d: %w", attempt, err))
		if ctx.Err() != nil || !Retryable(err) {
			break
		}
		logger.Warn("download attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}

	logger.Warn("download failed", zap.Error(errs))
	result := event_fetcher.Failed(number, errs)
	result.URL = c.URL()
	return result
}

func (e *Executor) attempt(ctx context.Context, number string, c link.Candidate, dest string) (event_fetcher.DownloadResult, error) {
	attemptCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.open(attemptCtx, c)
	if err != nil {
		return event_fetcher.DownloadResult{}, e.checkTimeout(ctx, attemptCtx, err)
	}
	defer resp.Body.Close()

	var extra []io.Writer
	var tracker ProgressTracker
	if e.progress != nil {
		tracker = e.progress(filepath.Base(dest), resp.ContentLength)
		extra = append(extra, tracker)
	}
	n, head, err := writeAtomic(attemptCtx, dest, resp.Body, extra...)
	if tracker != nil {
		_ = tracker.Finish()
	}
	if err != nil {
		return event_fetcher.DownloadResult{}, e.checkTimeout(ctx, attemptCtx, err)
	}

	result := event_fetcher.Success(number, dest)
	result.URL = resp.Request.URL.String()
	result.Bytes = n
	result.FileType = DetectFileType(head)
	result.RemoteName = remoteFilename(resp)
	return result, nil
}

// checkTimeout distinguishes the attempt's own deadline from the caller's context ending.
func (e *Executor) checkTimeout(ctx context.Context, attemptCtx context.Context, err error) error {
	if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v: %v", ErrTimeout, e.timeout, err)
	}
	return err
}

func remoteFilename(resp *http.Response) string {
	if name, err := FilenameFromDisposition(resp.Header.Get("Content-Disposition")); err == nil {
		return name
	}
	if name, err := FilenameFromURL(resp.Request.URL); err == nil {
		return name
	}
	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
