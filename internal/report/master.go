// Package report assembles the combined Billing Master extract from the
// reconciliation partitions: every matched visit plus every Prompt-only
// visit, tagged with its source so billing staff work one file.
package report

import (
	"github.com/nateginn/ART-Performance/internal/model"
)

// Source and match-status values written to the master extract.
const (
	SourceBoth       = "Both AMD & Prompt"
	SourcePromptOnly = "Prompt Only"

	StatusMatched   = "Matched"
	StatusUnmatched = "Unmatched in AMD"
)

// masterColumns is the fixed output schema; missing inputs fill with blanks.
var masterColumns = []string{
	"Patient Account Number",
	"DOS",
	"Case_Primary_Insurance",
	"Source",
	"Match_Status",
	"Provider",
	"Referral Source",
	"Visit Facility",
	"Prompt_Allowed",
	"AMD_Charges",
	"Billed_Match",
	"Prompt_Insurance_Paid",
	"AMD_Insurance_Paid",
	"Insurance_Match",
	"Prompt_Total_Paid",
	"AMD_Total_Paid",
	"Total_Paid_Match",
	"Visit Stage",
	"Discrepancies",
	"Note",
}

// promptOnlyRenames maps Prompt-only headers onto the master schema.
var promptOnlyRenames = map[string]string{
	"Primary Allowed": "Prompt_Allowed",
	"Total Paid":      "Prompt_Total_Paid",
}

// BillingMaster combines the matched and Prompt-only partitions into the
// master schema. Row order follows the inputs: matched first, then
// Prompt-only, both already sorted by match key upstream.
func BillingMaster(matched, promptOnly *model.Table) *model.Table {
	out := model.NewTable(masterColumns...)

	for _, row := range matched.Rows {
		rec := blankRecord()
		for k, v := range row {
			if _, ok := rec[k]; ok {
				rec[k] = v
			}
		}
		rec["Source"] = SourceBoth
		rec["Match_Status"] = StatusMatched
		out.Append(rec)
	}

	for _, row := range promptOnly.Rows {
		rec := blankRecord()
		for k, v := range row {
			if to, renamed := promptOnlyRenames[k]; renamed {
				k = to
			}
			if _, ok := rec[k]; ok {
				rec[k] = v
			}
		}
		rec["Source"] = SourcePromptOnly
		rec["Match_Status"] = StatusUnmatched
		out.Append(rec)
	}
	return out
}

func blankRecord() model.Record {
	rec := make(model.Record, len(masterColumns))
	for _, c := range masterColumns {
		rec[c] = ""
	}
	return rec
}
