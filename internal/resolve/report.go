package resolve

import (
	"fmt"
	"strings"
	"time"
)

// Report renders the matching run as a Markdown report alongside the
// annotated ledger output.
func Report(r *Resolution, sourcePath string, now time.Time) string {
	var b strings.Builder
	s := r.Summary

	fmt.Fprintf(&b, "# Patient Matching Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Source: `%s`\n\n", sourcePath)

	fmt.Fprintf(&b, "## Summary\n")
	fmt.Fprintf(&b, "- **Total Records**: %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "- **Matched**: %d (%.1f%%)\n", s.Matched, s.MatchRate())
	fmt.Fprintf(&b, "- **Unmatched**: %d\n", s.Unmatched)
	fmt.Fprintf(&b, "- **User Confirmed Matches**: %d\n", s.UserConfirmed)
	fmt.Fprintf(&b, "- **Deferred (still CLOSE_MATCH)**: %d\n\n", s.Deferred)

	fmt.Fprintf(&b, "## Confirmed Close Matches\n")
	if len(r.Confirmed) == 0 {
		b.WriteString("\n*None*\n")
	} else {
		b.WriteString("\n| Ledger Name | Master List Name | Prompt ID | DOB |\n|---|---|---|---|\n")
		for _, c := range r.Confirmed {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.LedgerName, c.MasterName, c.PromptID, c.DOB)
		}
	}

	fmt.Fprintf(&b, "\n## Unmatched Records\n")
	if len(r.Unmatched) == 0 {
		b.WriteString("\n*None*\n")
	} else {
		b.WriteString("\nThese rows need manual follow-up before de-identification.\n\n")
		b.WriteString("| Row | Name | DOB |\n|---|---|---|\n")
		for _, u := range r.Unmatched {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", u.Row, u.Name, u.DOB)
		}
	}

	fmt.Fprintf(&b, "\n## Pending Close Matches\n")
	if len(r.Pending) == 0 {
		b.WriteString("\n*None*\n")
	} else {
		fmt.Fprintf(&b, "\n%d group(s) still carry the CLOSE_MATCH sentinel. ", len(r.Pending))
		b.WriteString("Re-run matching with a decisions file to resolve them.\n\n")
		b.WriteString("| Key | Name | DOB | Candidates | Rows |\n|---|---|---|---|---|\n")
		for _, g := range r.Pending {
			names := make([]string, len(g.Candidates))
			for i, c := range g.Candidates {
				names[i] = fmt.Sprintf("%s (%s)", c.OriginalName, c.PromptID)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
				g.Key, g.Name, g.DOB, strings.Join(names, "; "), len(g.Rows))
		}
	}
	return b.String()
}
