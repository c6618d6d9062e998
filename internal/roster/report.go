package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/nateginn/ART-Performance/internal/model"
)

// UpdateReport renders the maintenance run as a Markdown report for the
// data directory.
func UpdateReport(s *model.RosterSummary, listPath string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Master Patient List Update Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## Summary\n")
	fmt.Fprintf(&b, "- **New Patients Added**: %d\n", len(s.NewPatients))
	fmt.Fprintf(&b, "- **Duplicates Skipped (in sheet)**: %d\n", s.DuplicatesSkipped)
	fmt.Fprintf(&b, "- **Existing Patients Skipped**: %d\n", s.ExistingSkipped)
	fmt.Fprintf(&b, "- **Total Patients in Master List**: %d\n\n", s.TotalPatients)

	fmt.Fprintf(&b, "## New Patients Added\n")
	if len(s.NewPatients) == 0 {
		b.WriteString("\n*No new patients added*\n")
	} else {
		b.WriteString("\n| Patient ID | Name | Date of Birth |\n|---|---|---|\n")
		for _, p := range s.NewPatients {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", p.PromptID, p.PatientName, p.DateOfBirth)
		}
	}

	fmt.Fprintf(&b, "\n## Status\nMaster list updated successfully.\n\n")
	fmt.Fprintf(&b, "---\n*Master Patient List Location:* `%s`\n", listPath)
	return b.String()
}
