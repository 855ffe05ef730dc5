package event_fetcher

import "fmt"

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// A DownloadResult is the terminal outcome for one entry.
type DownloadResult struct {
	EntryNumber string
	Outcome     Outcome
	// Path of the written file, for OutcomeSuccess.
	Path string
	// Reason a download was not attempted, for OutcomeSkipped.
	Reason string
	// Err is the cause, for OutcomeFailed.
	Err error
	// URL is the URL that was fetched (or attempted), if any.
	URL string

	// Reporting details, for OutcomeSuccess.
	Bytes      int64
	FileType   string
	RemoteName string
}

func Success(number string, path string) DownloadResult {
	return DownloadResult{EntryNumber: number, Outcome: OutcomeSuccess, Path: path}
}

func Skipped(number string, reason string) DownloadResult {
	return DownloadResult{EntryNumber: number, Outcome: OutcomeSkipped, Reason: reason}
}

func Failed(number string, err error) DownloadResult {
	return DownloadResult{EntryNumber: number, Outcome: OutcomeFailed, Err: err}
}

func (r DownloadResult) String() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("#%s: success: %s", r.EntryNumber, r.Path)
	case OutcomeSkipped:
		return fmt.Sprintf("#%s: skipped: %s", r.EntryNumber, r.Reason)
	default:
		return fmt.Sprintf("#%s: failed: %v", r.EntryNumber, r.Err)
	}
}
