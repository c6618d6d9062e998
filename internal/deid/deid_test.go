package deid

import (
	"strings"
	"testing"
	"time"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/resolve"
)

func matchedLedger() *model.Table {
	t := model.NewTable(
		"Patient Name (First Last)",
		resolve.ColumnPromptID,
		"Patient Birth Date",
		"Office Key",
		"Service Date",
		"Charges",
	)
	rows := [][]string{
		{"Jane Doe", "P1", "3/4/1980", "OK1", "1/5/2025", "100.00"},
		{"Nobody Known", resolve.SentinelUnmatched, "7/7/2000", "OK1", "1/6/2025", "50.00"},
		{"Janet Doe", resolve.SentinelCloseMatch, "3/4/1980", "OK1", "1/7/2025", "25.00"},
	}
	for _, r := range rows {
		t.Append(model.Record{
			"Patient Name (First Last)": r[0],
			resolve.ColumnPromptID:      r[1],
			"Patient Birth Date":        r[2],
			"Office Key":                r[3],
			"Service Date":              r[4],
			"Charges":                   r[5],
		})
	}
	return t
}

func TestSplitAndStrip(t *testing.T) {
	res, err := SplitAndStrip(matchedLedger(), config.Default().PHI)
	if err != nil {
		t.Fatalf("SplitAndStrip: %v", err)
	}

	if res.Summary.TotalRecords != 3 || res.Summary.MatchedRecords != 1 || res.Summary.UnmatchedRecords != 2 {
		t.Fatalf("summary = %+v", res.Summary)
	}

	// All rows survive into the de-identified extract, sentinels included.
	if res.Deidentified.Len() != 3 {
		t.Fatalf("deidentified rows = %d", res.Deidentified.Len())
	}
	if !res.Deidentified.HasColumn(ColumnAccountNumber) {
		t.Fatalf("columns = %v", res.Deidentified.Columns)
	}
	if res.Deidentified.HasColumn(resolve.ColumnPromptID) {
		t.Fatal("Prompt_ID must be renamed, not duplicated")
	}
	for _, gone := range []string{"Patient Name (First Last)", "Patient Birth Date", "Office Key"} {
		if res.Deidentified.HasColumn(gone) {
			t.Fatalf("PHI column %q survived", gone)
		}
	}
	for _, kept := range []string{"Service Date", "Charges"} {
		if !res.Deidentified.HasColumn(kept) {
			t.Fatalf("column %q should be kept", kept)
		}
	}

	// Unmatched follow-up file keeps PHI.
	if res.Unmatched.Len() != 2 {
		t.Fatalf("unmatched rows = %d", res.Unmatched.Len())
	}
	if !res.Unmatched.HasColumn("Patient Name (First Last)") {
		t.Fatal("follow-up file must retain PHI columns")
	}
	if got := res.Unmatched.Rows[1]["Patient Name (First Last)"]; got != "Janet Doe" {
		t.Fatalf("unmatched row = %q", got)
	}

	// The identifier rename applies to the follow-up file too.
	if res.Unmatched.HasColumn(resolve.ColumnPromptID) {
		t.Fatal("follow-up file must carry the renamed identifier column")
	}
	if !res.Unmatched.HasColumn(ColumnAccountNumber) {
		t.Fatalf("unmatched columns = %v", res.Unmatched.Columns)
	}
	if got := res.Unmatched.Rows[0][ColumnAccountNumber]; got != resolve.SentinelUnmatched {
		t.Fatalf("unmatched sentinel = %q", got)
	}
}

func TestSplitAndStripAllMatched(t *testing.T) {
	src := matchedLedger()
	for _, row := range src.Rows {
		row[resolve.ColumnPromptID] = "P1"
	}

	res, err := SplitAndStrip(src, config.Default().PHI)
	if err != nil {
		t.Fatalf("SplitAndStrip: %v", err)
	}
	if res.Unmatched.Len() != 0 {
		t.Fatalf("unmatched rows = %d, want none", res.Unmatched.Len())
	}
	if res.Summary.UnmatchedRecords != 0 {
		t.Fatalf("summary = %+v", res.Summary)
	}
}

func TestSplitAndStripRequiresPromptID(t *testing.T) {
	tbl := model.NewTable("Patient Name (First Last)", "Charges")
	if _, err := SplitAndStrip(tbl, config.Default().PHI); err == nil {
		t.Fatal("expected error without Prompt_ID column")
	}
}

func TestSplitAndStripDoesNotMutateInput(t *testing.T) {
	src := matchedLedger()
	cols := append([]string(nil), src.Columns...)
	if _, err := SplitAndStrip(src, config.Default().PHI); err != nil {
		t.Fatal(err)
	}
	if len(src.Columns) != len(cols) {
		t.Fatalf("input columns changed: %v", src.Columns)
	}
	if src.Rows[0]["Patient Name (First Last)"] != "Jane Doe" {
		t.Fatal("input rows changed")
	}
}

func TestRemovableKeepListWins(t *testing.T) {
	phi := config.Default().PHI
	cases := []struct {
		col  string
		want bool
	}{
		{"Patient Name (First Last)", true},
		{"Patient Birth Date", true},
		{"DOB", true},
		{"Office Key", true},
		{"Practice Name", true},
		{"Provider Profile ID", true},
		{"Patient Account Number", false},
		{"Service Date", false},
		{"Charges", false},
		{"Current Balance", false},
	}
	for _, c := range cases {
		if got := Removable(c.col, phi); got != c.want {
			t.Errorf("Removable(%q) = %v, want %v", c.col, got, c.want)
		}
	}
}

func TestValidate(t *testing.T) {
	res, err := SplitAndStrip(matchedLedger(), config.Default().PHI)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(res.Deidentified); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := model.NewTable(ColumnAccountNumber, "Patient Birth Date")
	if err := Validate(bad); err == nil {
		t.Fatal("expected error for surviving birth-date column")
	}
	bad = model.NewTable(ColumnAccountNumber, "Patient Name")
	if err := Validate(bad); err == nil {
		t.Fatal("expected error for surviving name column")
	}
	bad = model.NewTable("Service Date")
	if err := Validate(bad); err == nil {
		t.Fatal("expected error when identifier column is missing")
	}
}

func TestReportContent(t *testing.T) {
	res, err := SplitAndStrip(matchedLedger(), config.Default().PHI)
	if err != nil {
		t.Fatal(err)
	}
	rep := Report(res, "amd_matched.csv", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	for _, want := range []string{
		"# De-Identification Report",
		"**Total Records**: 3",
		"- Patient Birth Date",
		"- Service Date",
	} {
		if !strings.Contains(rep, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}
