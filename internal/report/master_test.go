package report

import (
	"testing"

	"github.com/nateginn/ART-Performance/internal/model"
)

func TestBillingMaster(t *testing.T) {
	matched := model.NewTable("Patient Account Number", "DOS", "Prompt_Allowed", "AMD_Charges", "Billed_Match", "Discrepancies")
	matched.Append(model.Record{
		"Patient Account Number": "P1",
		"DOS":                    "1/1/2025",
		"Prompt_Allowed":         "100.00",
		"AMD_Charges":            "100.00",
		"Billed_Match":           "YES",
		"Discrepancies":          "None",
	})

	promptOnly := model.NewTable("Patient Account Number", "DOS", "Primary Allowed", "Total Paid", "Visit Stage", "Note")
	promptOnly.Append(model.Record{
		"Patient Account Number": "P2",
		"DOS":                    "1/2/2025",
		"Primary Allowed":        "50.00",
		"Total Paid":             "50.00",
		"Visit Stage":            "Open",
		"Note":                   "In Prompt but NOT in AMD - possible billing delay or data entry issue",
	})

	master := BillingMaster(matched, promptOnly)

	if master.Len() != 2 {
		t.Fatalf("rows = %d", master.Len())
	}
	if master.Columns[0] != "Patient Account Number" || master.Columns[3] != "Source" || master.Columns[4] != "Match_Status" {
		t.Fatalf("columns = %v", master.Columns)
	}

	m := master.Rows[0]
	if m["Source"] != SourceBoth || m["Match_Status"] != StatusMatched {
		t.Fatalf("matched row tags = %q / %q", m["Source"], m["Match_Status"])
	}
	if m["Prompt_Allowed"] != "100.00" {
		t.Fatalf("matched allowed = %q", m["Prompt_Allowed"])
	}

	p := master.Rows[1]
	if p["Source"] != SourcePromptOnly || p["Match_Status"] != StatusUnmatched {
		t.Fatalf("prompt-only tags = %q / %q", p["Source"], p["Match_Status"])
	}
	// Prompt-only headers fold into the master schema names.
	if p["Prompt_Allowed"] != "50.00" || p["Prompt_Total_Paid"] != "50.00" {
		t.Fatalf("renamed columns = %q / %q", p["Prompt_Allowed"], p["Prompt_Total_Paid"])
	}
	if p["AMD_Charges"] != "" || p["Billed_Match"] != "" {
		t.Fatal("absent inputs must stay blank")
	}
	if p["Visit Stage"] != "Open" {
		t.Fatalf("visit stage = %q", p["Visit Stage"])
	}
}

func TestBillingMasterEmptyInputs(t *testing.T) {
	master := BillingMaster(model.NewTable("X"), model.NewTable("Y"))
	if master.Len() != 0 {
		t.Fatalf("rows = %d", master.Len())
	}
	if len(master.Columns) != len(masterColumns) {
		t.Fatalf("columns = %v", master.Columns)
	}
}
