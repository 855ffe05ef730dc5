package selection

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	event_fetcher "github.com/alanbriolat/event-fetcher"
	"github.com/alanbriolat/event-fetcher/generic"
	"github.com/alanbriolat/event-fetcher/link"
)

// LinePrompter lists candidates on out and reads one line per answer from in.
type LinePrompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int
}

func NewLinePrompter(in io.Reader, out io.Writer, maxAttempts int) *LinePrompter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &LinePrompter{in: bufio.NewReader(in), out: out, maxAttempts: maxAttempts}
}

// SelectFromCandidates returns the 0-based index of the chosen candidate. A blank line, end of input, or too many
// invalid answers all mean skip.
func (p *LinePrompter) SelectFromCandidates(ctx context.Context, entry event_fetcher.Entry, candidates []link.Candidate) (generic.Option[int], error) {
	p.printHeader(entry)
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  %d) [%v] %s\n", i+1, c.Kind, c.URL())
	}
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return generic.None[int](), err
		}
		fmt.Fprintf(p.out, "Choose 1-%d (blank to skip): ", len(candidates))
		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return generic.None[int](), fmt.Errorf("failed to read answer: %w", err)
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			if err == io.EOF {
				fmt.Fprintln(p.out)
			}
			return generic.None[int](), nil
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(candidates) {
			return generic.Some(n - 1), nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q\n", answer)
		if err == io.EOF {
			break
		}
	}
	fmt.Fprintln(p.out, "Skipping")
	return generic.None[int](), nil
}

func (p *LinePrompter) printHeader(entry event_fetcher.Entry) {
	fmt.Fprintf(p.out, "\n#%s %s\n", entry.Number, entry.Title)
	if entry.Author != "" {
		fmt.Fprintf(p.out, "  author: %s\n", entry.Author)
	}
	if team, ok := entry.Team.Get(); ok {
		fmt.Fprintf(p.out, "  team: %s\n", team)
	}
	if size, ok := entry.Size.Get(); ok {
		fmt.Fprintf(p.out, "  size: %s\n", size)
	}
}
