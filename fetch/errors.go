package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

var (
	ErrNotFetchable   = errors.New("candidate is not fetchable")
	ErrInterstitial   = errors.New("got an HTML page instead of the file")
	ErrNoDownloadLink = errors.New("could not find download link on page")
	ErrTimeout        = errors.New("attempt timed out")
	ErrNoFilename     = errors.New("cannot extract valid filename")
)

// HTTPStatusError is a response with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

func newHTTPStatusError(resp *http.Response) *HTTPStatusError {
	return &HTTPStatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode, Status: resp.Status}
}

// Retryable reports whether an attempt that failed with err is worth repeating. Cancellation never is, and neither
// are client errors or filesystem errors.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
