package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nateginn/ART-Performance/internal/model"
)

func TestRead_HeaderAndRows(t *testing.T) {
	in := "Patient,Date of Birth,Charges\nJane Doe,3/4/1980,\"$1,234.50\"\nJohn Roe,1/2/1970\n"
	tbl, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(tbl.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %v", tbl.Columns)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if tbl.Rows[0]["Charges"] != "$1,234.50" {
		t.Errorf("unexpected charges: %q", tbl.Rows[0]["Charges"])
	}
	// Short row padded with blanks.
	if tbl.Rows[1]["Charges"] != "" {
		t.Errorf("expected padded blank, got %q", tbl.Rows[1]["Charges"])
	}
}

func TestRead_EmptyFile(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestRead_TooManyFields(t *testing.T) {
	if _, err := Read(strings.NewReader("a,b\n1,2,3\n")); err == nil {
		t.Fatal("expected error for over-wide row")
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	tbl := model.NewTable("Patient Account Number", "DOS", "Charges")
	tbl.Append(model.Record{"Patient Account Number": "P1", "DOS": "1/1/2025", "Charges": "100"})
	tbl.Append(model.Record{"Patient Account Number": "P2", "DOS": "1/2/2025", "Charges": "50"})

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteFile(path, tbl); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if back.Len() != 2 || back.Rows[1]["Charges"] != "50" {
		t.Errorf("round trip mismatch: %+v", back.Rows)
	}
}

func TestWrite_ColumnOrderStable(t *testing.T) {
	tbl := model.NewTable("b", "a")
	tbl.Append(model.Record{"a": "1", "b": "2"})
	var sb strings.Builder
	if err := Write(&sb, tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(sb.String(), "b,a\n2,1\n") {
		t.Errorf("unexpected output: %q", sb.String())
	}
}

func TestWriteParquet(t *testing.T) {
	tbl := model.NewTable("Patient Account Number", "Service Date", "Charges", "Insurance Payments", "Patient Payments", "Current Balance")
	tbl.Append(model.Record{
		"Patient Account Number": "P1",
		"Service Date":           "01/05/2025",
		"Charges":                "$150.00",
		"Insurance Payments":     "100",
		"Patient Payments":       "25",
		"Current Balance":        "25",
	})

	path := filepath.Join(t.TempDir(), "deid.parquet")
	n, err := WriteParquet(path, tbl, VisitColumns{
		AccountNumber:     "Patient Account Number",
		ServiceDate:       "Service Date",
		Charges:           "Charges",
		InsurancePayments: "Insurance Payments",
		PatientPayments:   "Patient Payments",
		CurrentBalance:    "Current Balance",
	})
	if err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row written, got %d", n)
	}
	stat, err := os.Stat(path)
	if err != nil || stat.Size() == 0 {
		t.Errorf("expected non-empty parquet file, err=%v", err)
	}
}
