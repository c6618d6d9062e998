package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if c.Ledgers[LedgerAMD].Column("charges") != "Charges" {
		t.Errorf("unexpected AMD charges mapping: %q", c.Ledgers[LedgerAMD].Column("charges"))
	}
}

func TestLoadFromFile_OverridesLedger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `tolerance_cents: 1
ledgers:
  amd:
    version: 2
    columns:
      patient_name: Name
      date_of_birth: DOB
      service_date: Visit Date
      charges: Billed
      insurance_payments: Ins Paid
      patient_payments: Pt Paid
`
	os.WriteFile(path, []byte(content), 0644)

	c := Default()
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.ToleranceCents != 1 {
		t.Errorf("tolerance not merged: %d", c.ToleranceCents)
	}
	if c.Tolerance() != 0.01 {
		t.Errorf("Tolerance() = %v, want 0.01", c.Tolerance())
	}
	if c.Ledgers[LedgerAMD].Version != 2 || c.Ledgers[LedgerAMD].Column("charges") != "Billed" {
		t.Errorf("AMD mapping not replaced: %+v", c.Ledgers[LedgerAMD])
	}
	// Untouched ledgers keep defaults.
	if c.Ledgers[LedgerPrompt].Column("allowed") != "Primary Allowed" {
		t.Errorf("prompt mapping should keep default")
	}
}

func TestLoadFromFile_UnknownLedger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("ledgers:\n  bogus:\n    version: 1\n"), 0644)

	c := Default()
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown ledger")
	}
}

func TestLoadFromFile_IncompleteMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("ledgers:\n  amd:\n    version: 2\n    columns:\n      patient_name: Name\n"), 0644)

	c := Default()
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for mapping missing required fields")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	c := Default()
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_NegativeTolerance(t *testing.T) {
	c := Default()
	c.ToleranceCents = -1
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for negative tolerance")
	}
}

func TestValidateInput(t *testing.T) {
	c := Default()
	if err := c.ValidateInput(); err == nil {
		t.Fatal("expected error with no input path")
	}
	path := filepath.Join(t.TempDir(), "in.csv")
	os.WriteFile(path, []byte("a\n1\n"), 0644)
	c.InputPath = path
	if err := c.ValidateInput(); err != nil {
		t.Fatalf("ValidateInput: %v", err)
	}
}
