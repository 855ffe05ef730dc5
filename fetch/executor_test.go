package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	event_fetcher "github.com/alanbriolat/event-fetcher"
	"github.com/alanbriolat/event-fetcher/generic"
	"github.com/alanbriolat/event-fetcher/link"
)

var zipContent = []byte("PK\x03\x04 pretend this is a zip file")

func candidate(kind link.Kind, u string) link.Candidate {
	return link.Candidate{
		Descriptor:   link.Descriptor{Kind: kind, Raw: u},
		CanonicalURL: generic.Some(u),
	}
}

func newTestExecutor(opts ...Option) *Executor {
	return New(append([]Option{WithRetryDelay(0), WithRetries(1)}, opts...)...)
}

// assertDirContents checks that dir contains exactly the named files, so that no temporary files are left behind.
func assertDirContents(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require_.NoError(t, err)
	var found []string
	for _, e := range entries {
		found = append(found, e.Name())
	}
	assert_.ElementsMatch(t, names, found)
}

func TestFetchDirect(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(event_fetcher.DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Disposition", `attachment; filename="entry.zip"`)
		w.Write(zipContent)
	}))
	defer server.Close()
	dir := t.TempDir()
	dest := filepath.Join(dir, "1 - Title")

	result := newTestExecutor().Fetch(context.Background(), "1", candidate(link.KindDirect, server.URL+"/files/x.zip"), dest)
	require.Equal(event_fetcher.OutcomeSuccess, result.Outcome, "%v", result.Err)
	assert.Equal("1", result.EntryNumber)
	assert.Equal(dest, result.Path)
	assert.Equal(int64(len(zipContent)), result.Bytes)
	assert.Equal("zip", result.FileType)
	assert.Equal("entry.zip", result.RemoteName)
	assert.Equal(server.URL+"/files/x.zip", result.URL)

	data, err := os.ReadFile(dest)
	require.NoError(err)
	assert.Equal(zipContent, data)
	assertDirContents(t, dir, "1 - Title")
}

func TestFetchNonArchiveWarning(t *testing.T) {
	assert := assert_.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "just some text")
	}))
	defer server.Close()
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := event_fetcher.WithLogger(context.Background(), zap.New(core))
	dest := filepath.Join(t.TempDir(), "2 - Text")

	result := newTestExecutor().Fetch(ctx, "2", candidate(link.KindDirect, server.URL+"/notes.txt"), dest)
	assert.Equal(event_fetcher.OutcomeSuccess, result.Outcome)
	assert.Equal("text/plain; charset=utf-8", result.FileType)
	assert.Equal("notes.txt", result.RemoteName)
	assert.Equal(1, logs.FilterMessage("downloaded file does not look like an archive").Len())
}

func TestFetchNotFoundLeavesNothing(t *testing.T) {
	assert := assert_.New(t)
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		http.NotFound(w, r)
	}))
	defer server.Close()
	dir := t.TempDir()
	dest := filepath.Join(dir, "3 - Missing")

	result := newTestExecutor().Fetch(context.Background(), "3", candidate(link.KindDirect, server.URL), dest)
	assert.Equal(event_fetcher.OutcomeFailed, result.Outcome)
	var statusErr *HTTPStatusError
	assert.True(errors.As(result.Err, &statusErr))
	assert.Equal(http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(int32(1), atomic.LoadInt32(&requests), "4xx is not retried")
	assert.NoFileExists(dest)
	assertDirContents(t, dir)
}

func TestFetchRetriesServerError(t *testing.T) {
	assert := assert_.New(t)
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(zipContent)
	}))
	defer server.Close()
	dest := filepath.Join(t.TempDir(), "4 - Flaky")

	result := newTestExecutor().Fetch(context.Background(), "4", candidate(link.KindDirect, server.URL), dest)
	assert.Equal(event_fetcher.OutcomeSuccess, result.Outcome)
	assert.Equal(int32(2), atomic.LoadInt32(&requests))
	assert.FileExists(dest)
}

func TestFetchRetriesExhausted(t *testing.T) {
	assert := assert_.New(t)
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	dir := t.TempDir()
	dest := filepath.Join(dir, "5 - Down")

	result := newTestExecutor(WithRetries(2)).Fetch(context.Background(), "5", candidate(link.KindDirect, server.URL), dest)
	assert.Equal(event_fetcher.OutcomeFailed, result.Outcome)
	assert.Equal(int32(3), atomic.LoadInt32(&requests))
	assert.Contains(result.Err.Error(), "attempt 3")
	assert.Equal(server.URL, result.URL)
	assertDirContents(t, dir)
}

func TestFetchTimeout(t *testing.T) {
	assert := assert_.New(t)
	var requests int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write(zipContent)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)
	dir := t.TempDir()

	result := newTestExecutor(WithTimeout(100*time.Millisecond)).Fetch(context.Background(), "6", candidate(link.KindDirect, server.URL), filepath.Join(dir, "6 - Slow"))
	assert.Equal(event_fetcher.OutcomeFailed, result.Outcome)
	assert.ErrorIs(result.Err, ErrTimeout)
	assert.Equal(int32(2), atomic.LoadInt32(&requests))
	assertDirContents(t, dir)
}

type cancellingTracker struct {
	cancel context.CancelFunc
}

func (c *cancellingTracker) Write(p []byte) (int, error) {
	c.cancel()
	return len(p), nil
}

func (c *cancellingTracker) Finish() error {
	return nil
}

func TestFetchCancelled(t *testing.T) {
	assert := assert_.New(t)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(zipContent)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	executor := newTestExecutor(WithProgress(func(description string, total int64) ProgressTracker {
		return &cancellingTracker{cancel: cancel}
	}))
	result := executor.Fetch(ctx, "7", candidate(link.KindDirect, server.URL), filepath.Join(dir, "7 - Cancelled"))
	assert.Equal(event_fetcher.OutcomeFailed, result.Outcome)
	assert.ErrorIs(result.Err, context.Canceled)
	assertDirContents(t, dir)
}

func TestFetchNotFetchable(t *testing.T) {
	assert := assert_.New(t)
	dir := t.TempDir()
	c := link.Canonicalize(link.Classify("https://mega.nz/file/abc#key"))

	result := newTestExecutor().Fetch(context.Background(), "8", c, filepath.Join(dir, "8 - Mega"))
	assert.Equal(event_fetcher.OutcomeFailed, result.Outcome)
	assert.ErrorIs(result.Err, ErrNotFetchable)

	// A Kind without a fetch strategy, even with a URL.
	result = newTestExecutor().Fetch(context.Background(), "8", candidate(link.KindMega, "http://127.0.0.1:1/"), filepath.Join(dir, "8 - Mega"))
	assert.ErrorIs(result.Err, ErrNotFetchable)
	assertDirContents(t, dir)
}

func TestFetchOneDriveRedirect(t *testing.T) {
	assert := assert_.New(t)
	var heads int32
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final/entry.zip", http.StatusFound)
	})
	mux.HandleFunc("/final/entry.zip", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			atomic.AddInt32(&heads, 1)
			return
		}
		w.Write(zipContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	dest := filepath.Join(t.TempDir(), "9 - OneDrive")

	result := newTestExecutor().Fetch(context.Background(), "9", candidate(link.KindOneDrive, server.URL+"/short"), dest)
	assert.Equal(event_fetcher.OutcomeSuccess, result.Outcome)
	assert.Equal(server.URL+"/final/entry.zip", result.URL)
	assert.Equal(int32(1), atomic.LoadInt32(&heads))
	assert.Equal("entry.zip", result.RemoteName)
}
