package recon

import (
	"fmt"
	"strings"
	"time"
)

// Report renders the reconciliation run as a narrative Markdown report.
func Report(r *Result, now time.Time) string {
	var b strings.Builder
	s := r.Summary

	billed, insurance, totalPaid := 0, 0, 0
	for _, c := range r.Comparisons {
		for _, d := range c.Discrepancies {
			switch {
			case strings.HasPrefix(d, "BILLED"):
				billed++
			case strings.HasPrefix(d, "INSURANCE"):
				insurance++
			case strings.HasPrefix(d, "TOTAL PAID"):
				totalPaid++
			}
		}
	}
	clean := 0
	for _, c := range r.Comparisons {
		if len(c.Discrepancies) == 0 {
			clean++
		}
	}

	fmt.Fprintf(&b, "# AMD vs Prompt EHR Comparison Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## Summary Statistics\n\n")
	fmt.Fprintf(&b, "### Data Volumes\n")
	fmt.Fprintf(&b, "- **Prompt EHR Records**: %d\n", s.PromptTotal)
	fmt.Fprintf(&b, "- **AMD Records**: %d\n", s.AMDTotal)
	fmt.Fprintf(&b, "- **MATCHED Records**: %d (%.1f%% of AMD)\n", s.Matched, s.AMDMatchPct())
	fmt.Fprintf(&b, "- **Prompt-only Records**: %d (in Prompt but not AMD)\n", s.PromptOnly)
	fmt.Fprintf(&b, "- **AMD-only Records**: %d (in AMD but not Prompt)\n\n", s.AMDOnly)

	fmt.Fprintf(&b, "### Data Quality\n")
	fmt.Fprintf(&b, "- **Discrepancies Found**: %d\n", s.Discrepancies)
	fmt.Fprintf(&b, "- **Perfect Matches (no discrepancies)**: %d\n", clean)
	fmt.Fprintf(&b, "- **Match Quality**: %.1f%% perfect match rate\n", s.MatchQuality())
	if s.PromptDupKeys > 0 || s.AMDDupKeys > 0 {
		fmt.Fprintf(&b, "- **Duplicate Match Keys**: Prompt=%d, AMD=%d (last row wins; review source extracts)\n",
			s.PromptDupKeys, s.AMDDupKeys)
	}
	if s.UnparseableMoney > 0 {
		fmt.Fprintf(&b, "- **Unparseable Currency Values**: %d (treated as $0.00)\n", s.UnparseableMoney)
	}

	fmt.Fprintf(&b, "\n## Discrepancy Breakdown\n\n")
	fmt.Fprintf(&b, "### Billed Amount Mismatches\n")
	fmt.Fprintf(&b, "- **Count**: %d\n", billed)
	fmt.Fprintf(&b, "- **Issue**: Prompt \"Primary Allowed\" differs from AMD \"Charges\"\n\n")
	fmt.Fprintf(&b, "### Insurance Payment Mismatches\n")
	fmt.Fprintf(&b, "- **Count**: %d\n", insurance)
	fmt.Fprintf(&b, "- **Issue**: Prompt \"Primary Insurance Paid\" differs from AMD \"Insurance Payments\"\n\n")
	fmt.Fprintf(&b, "### Total Paid Mismatches\n")
	fmt.Fprintf(&b, "- **Count**: %d\n", totalPaid)
	fmt.Fprintf(&b, "- **Issue**: Total collected differs between Prompt and AMD\n")

	fmt.Fprintf(&b, "\n## Records Requiring Investigation\n\n")
	fmt.Fprintf(&b, "### Prompt-only Records (%d)\n", s.PromptOnly)
	b.WriteString("Visits recorded clinically but absent from billing. Check the Visit Stage: ")
	b.WriteString("a Closed visit should already carry an AMD charge; an Open visit may simply not be billed yet.\n\n")
	fmt.Fprintf(&b, "### AMD-only Records (%d)\n", s.AMDOnly)
	b.WriteString("Billing rows with no clinical counterpart. Rows whose account number is ")
	b.WriteString("UNMATCHED need the patient added to the master list, then a matching re-run.\n")

	fmt.Fprintf(&b, "\n## Output Files\n")
	b.WriteString("- `comparison_matched_*.csv`: side-by-side financial comparison with discrepancy flags\n")
	b.WriteString("- `prompt_only_*.csv`: clinical visits awaiting billing follow-up\n")
	b.WriteString("- `amd_only_*.csv`: billing rows needing patient research\n")
	return b.String()
}
