package recon

import (
	"strings"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/normalize"
)

// Notes attached to the single-side partitions.
const (
	notePromptOnly = "In Prompt but NOT in AMD - possible billing delay or data entry issue"
	noteAMDOnly    = "In AMD but NOT in Prompt - UNMATCHED patient or data discrepancy"
)

// MatchedTable renders the matched partition with side-by-side financial
// columns and per-dimension YES/NO match flags.
func MatchedTable(comparisons []Comparison, tol float64) *model.Table {
	t := model.NewTable(
		"Patient Account Number",
		"DOS",
		"Case_Primary_Insurance",
		"Prompt_Allowed",
		"AMD_Charges",
		"Billed_Match",
		"Prompt_Insurance_Paid",
		"AMD_Insurance_Paid",
		"Insurance_Match",
		"Prompt_Total_Paid",
		"AMD_Total_Paid",
		"Total_Paid_Match",
		"Discrepancies",
	)
	for _, c := range comparisons {
		disc := "None"
		if len(c.Discrepancies) > 0 {
			disc = strings.Join(c.Discrepancies, " | ")
		}
		t.Append(model.Record{
			"Patient Account Number": c.Account,
			"DOS":                    c.DOS,
			"Case_Primary_Insurance": c.PrimaryInsurance,
			"Prompt_Allowed":         normalize.Dollars(c.PromptAllowed),
			"AMD_Charges":            normalize.Dollars(c.AMDCharges),
			"Billed_Match":           yesNo(withinTolerance(c.PromptAllowed, c.AMDCharges, tol)),
			"Prompt_Insurance_Paid":  normalize.Dollars(c.PromptInsurancePaid),
			"AMD_Insurance_Paid":     normalize.Dollars(c.AMDInsurancePaid),
			"Insurance_Match":        yesNo(withinTolerance(c.PromptInsurancePaid, c.AMDInsurancePaid, tol)),
			"Prompt_Total_Paid":      normalize.Dollars(c.PromptTotalPaid),
			"AMD_Total_Paid":         normalize.Dollars(c.AMDTotalPaid),
			"Total_Paid_Match":       yesNo(withinTolerance(c.PromptTotalPaid, c.AMDTotalPaid, tol)),
			"Discrepancies":          disc,
		})
	}
	return t
}

// PromptOnlyTable renders the Prompt-only partition for billing follow-up.
func PromptOnlyTable(records []OnlyRecord, m config.LedgerMapping) *model.Table {
	t := model.NewTable(
		"Patient Account Number",
		"DOS",
		"Case_Primary_Insurance",
		"Provider",
		"Primary Allowed",
		"Total Paid",
		"Visit Stage",
		"Note",
	)
	for _, r := range records {
		t.Append(model.Record{
			"Patient Account Number": r.Row[m.Column("account_number")],
			"DOS":                    r.DOS,
			"Case_Primary_Insurance": r.Row[m.Column("primary_insurance")],
			"Provider":               r.Row[m.Column("provider")],
			"Primary Allowed":        r.Row[m.Column("allowed")],
			"Total Paid":             r.Row[m.Column("total_paid")],
			"Visit Stage":            r.Row[m.Column("visit_stage")],
			"Note":                   notePromptOnly,
		})
	}
	return t
}

// AMDOnlyTable renders the AMD-only partition. These rows are commonly the
// UNMATCHED sentinels from identity resolution.
func AMDOnlyTable(records []OnlyRecord, accountCol string, m config.LedgerMapping) *model.Table {
	t := model.NewTable(
		"Patient Account Number",
		"DOS",
		"Case_Primary_Insurance",
		"Charges",
		"Insurance Payments",
		"Patient Payments",
		"Current Balance",
		"Note",
	)
	for _, r := range records {
		t.Append(model.Record{
			"Patient Account Number": r.Row[accountCol],
			"DOS":                    r.DOS,
			"Case_Primary_Insurance": "",
			"Charges":                r.Row[m.Column("charges")],
			"Insurance Payments":     r.Row[m.Column("insurance_payments")],
			"Patient Payments":       r.Row[m.Column("patient_payments")],
			"Current Balance":        r.Row[m.Column("current_balance")],
			"Note":                   noteAMDOnly,
		})
	}
	return t
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
