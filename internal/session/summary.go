package session

import (
	"fmt"
	"io"
	"strings"

	event_fetcher "github.com/alanbriolat/event-fetcher"
)

// A Summary holds one result per processed entry, in original entry order.
type Summary struct {
	Results []event_fetcher.DownloadResult
	// Unmatched are requested entry numbers that matched no entry.
	Unmatched []string
}

type Counts struct {
	Success int
	Skipped int
	Failed  int
}

func (c Counts) Total() int {
	return c.Success + c.Skipped + c.Failed
}

func (s *Summary) Counts() Counts {
	var c Counts
	for _, r := range s.Results {
		switch r.Outcome {
		case event_fetcher.OutcomeSuccess:
			c.Success++
		case event_fetcher.OutcomeSkipped:
			c.Skipped++
		case event_fetcher.OutcomeFailed:
			c.Failed++
		}
	}
	return c
}

// Render writes the human-readable end of run report.
func (s *Summary) Render(w io.Writer) error {
	c := s.Counts()
	b := &strings.Builder{}
	fmt.Fprintf(b, "Summary: %d succeeded, %d skipped, %d failed (%d entries)\n", c.Success, c.Skipped, c.Failed, c.Total())
	for _, r := range s.Results {
		fmt.Fprintf(b, "  #%s %s: %s\n", r.EntryNumber, r.Outcome, detail(r))
	}
	if len(s.Unmatched) > 0 {
		fmt.Fprintf(b, "Requested entries not found: %s\n", strings.Join(s.Unmatched, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func detail(r event_fetcher.DownloadResult) string {
	switch r.Outcome {
	case event_fetcher.OutcomeSuccess:
		var extra []string
		if r.RemoteName != "" {
			extra = append(extra, "remote name "+r.RemoteName)
		}
		if r.FileType != "" {
			extra = append(extra, r.FileType)
		}
		extra = append(extra, fmt.Sprintf("%d bytes", r.Bytes))
		return fmt.Sprintf("%s (%s)", r.Path, strings.Join(extra, ", "))
	case event_fetcher.OutcomeSkipped:
		return r.Reason
	default:
		msg := "unknown error"
		if r.Err != nil {
			msg = oneLine(r.Err.Error())
		}
		if r.URL != "" {
			return fmt.Sprintf("%s (%s)", msg, r.URL)
		}
		return msg
	}
}

// oneLine flattens multi-line error text, like that of a multierror.
func oneLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, " ")
}
