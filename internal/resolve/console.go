package resolve

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ConsoleReviewer walks an operator through each pending close-match group on
// a terminal. Each group prints its candidates once; the operator picks a
// candidate by number, enters 0 to mark the group UNMATCHED, or "s" to defer
// it for a later pass.
type ConsoleReviewer struct {
	In  io.Reader
	Out io.Writer
}

// Review prompts for every group and returns the decisions made. Deferred
// groups are simply absent from the result. Review stops with an error only
// when the input stream ends mid-session.
func (r *ConsoleReviewer) Review(groups []PendingGroup) (map[string]string, error) {
	decisions := make(map[string]string)
	if len(groups) == 0 {
		return decisions, nil
	}
	sc := bufio.NewScanner(r.In)
	fmt.Fprintf(r.Out, "%d close match group(s) need review\n", len(groups))
	for i, g := range groups {
		fmt.Fprintf(r.Out, "\n[%d/%d] %s (DOB %s), %d row(s)\n", i+1, len(groups), g.Name, g.DOB, len(g.Rows))
		for j, c := range g.Candidates {
			fmt.Fprintf(r.Out, "  %d) %s  %s  DOB %s\n", j+1, c.PromptID, c.OriginalName, c.DOB)
		}
		fmt.Fprintln(r.Out, "  0) none of these (mark UNMATCHED)")
		fmt.Fprintln(r.Out, "  s) skip for now")
		for {
			fmt.Fprint(r.Out, "> ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return decisions, fmt.Errorf("read review input: %w", err)
				}
				return decisions, fmt.Errorf("review input ended with %d group(s) unreviewed", len(groups)-i)
			}
			choice := strings.TrimSpace(strings.ToLower(sc.Text()))
			if choice == "s" {
				break
			}
			n, err := strconv.Atoi(choice)
			if err != nil || n < 0 || n > len(g.Candidates) {
				fmt.Fprintf(r.Out, "enter 1-%d, 0, or s\n", len(g.Candidates))
				continue
			}
			if n == 0 {
				decisions[g.Key] = SentinelUnmatched
			} else {
				decisions[g.Key] = g.Candidates[n-1].PromptID
			}
			break
		}
	}
	return decisions, nil
}
