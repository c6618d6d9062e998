package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Report renders all metrics as a Markdown revenue report.
func Report(a *All, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Revenue Metrics Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	e := a.Executive
	fmt.Fprintf(&b, "## Executive Summary\n")
	fmt.Fprintf(&b, "- **Total Visits**: %d\n", e.TotalVisits)
	fmt.Fprintf(&b, "- **Unique Patients**: %d\n", e.UniquePatients)
	fmt.Fprintf(&b, "- **Total Billed**: $%.2f\n", e.TotalBilled)
	fmt.Fprintf(&b, "- **Total Collected**: $%.2f\n", e.TotalCollected)
	fmt.Fprintf(&b, "- **Collection Rate**: %.2f%%\n", e.CollectionRate)
	fmt.Fprintf(&b, "- **Avg Collection / Visit**: $%.2f\n", e.AvgCollectionPerVisit)
	fmt.Fprintf(&b, "- **Total Written Off**: $%.2f\n", e.TotalWrittenOff)
	fmt.Fprintf(&b, "- **Outstanding**: $%.2f\n\n", e.TotalHanging)

	groupSection(&b, "Provider Performance", a.Providers, true)
	groupSection(&b, "Insurance Analysis", a.Insurance, false)
	groupSection(&b, "Facility Comparison", a.Facilities, false)

	p := a.Pipeline
	fmt.Fprintf(&b, "## Collection Pipeline\n")
	fmt.Fprintf(&b, "- **Billed**: $%.2f\n", p.Billed)
	fmt.Fprintf(&b, "- **Insurance Paid**: $%.2f (%.2f%%)\n", p.InsurancePaid, p.PctInsurance)
	fmt.Fprintf(&b, "- **Patient Paid**: $%.2f (%.2f%%)\n", p.PatientPaid, p.PctPatient)
	fmt.Fprintf(&b, "- **Written Off**: $%.2f (%.2f%%)\n", p.WrittenOff, p.PctWrittenOff)
	fmt.Fprintf(&b, "- **Total Collected**: $%.2f (%.2f%%)\n", p.TotalCollected, p.PctCollected)
	fmt.Fprintf(&b, "- **Outstanding**: $%.2f (%.2f%%)\n\n", p.Outstanding, p.PctOutstanding)

	fmt.Fprintf(&b, "## Visit Stage Breakdown\n\n")
	b.WriteString("| Stage | Visits | % of Total | Billed | Collected |\n|---|---|---|---|---|\n")
	for _, s := range a.Stages {
		fmt.Fprintf(&b, "| %s | %d | %.2f%% | $%.2f | $%.2f |\n", s.Stage, s.Count, s.PctOfTotal, s.Billed, s.Collected)
	}

	fmt.Fprintf(&b, "\n## Red Flags\n")
	if len(a.Flags) == 0 {
		b.WriteString("\nNo red flags detected.\n")
	} else {
		for i, f := range a.Flags {
			fmt.Fprintf(&b, "\n### Flag %d: %s (%s)\n", i+1, f.Type, strings.ToUpper(f.Severity))
			fmt.Fprintf(&b, "- %s\n", f.Description)
			if f.AffectedRecords > 0 {
				fmt.Fprintf(&b, "- Affected records: %d\n", f.AffectedRecords)
			}
			if f.Details != "" {
				fmt.Fprintf(&b, "- %s\n", f.Details)
			}
		}
	}
	return b.String()
}

func groupSection(b *strings.Builder, title string, rows []GroupRow, writeOffs bool) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if writeOffs {
		b.WriteString("| Name | Visits | Billed | Collected | Rate | Avg/Visit | % Revenue | Written Off |\n|---|---|---|---|---|---|---|---|\n")
	} else {
		b.WriteString("| Name | Visits | Billed | Collected | Rate | Avg/Visit | % Visits | % Revenue |\n|---|---|---|---|---|---|---|---|\n")
	}
	for _, g := range rows {
		if writeOffs {
			fmt.Fprintf(b, "| %s | %d | $%.2f | $%.2f | %.2f%% | $%.2f | %.2f%% | $%.2f |\n",
				g.Name, g.Visits, g.Billed, g.Collected, g.CollectionRate, g.AvgPerVisit, g.PctOfRevenue, g.WrittenOff)
		} else {
			fmt.Fprintf(b, "| %s | %d | $%.2f | $%.2f | %.2f%% | $%.2f | %.2f%% | %.2f%% |\n",
				g.Name, g.Visits, g.Billed, g.Collected, g.CollectionRate, g.AvgPerVisit, g.PctOfVisits, g.PctOfRevenue)
		}
	}
	b.WriteString("\n")
}
