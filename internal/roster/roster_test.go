package roster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
)

func rosterMapping() config.LedgerMapping {
	return config.Default().Ledgers[config.LedgerRoster]
}

func rosterTable(rows ...[3]string) *model.Table {
	t := model.NewTable("Patient Account Number", "Patient", "Date of Birth")
	for _, r := range rows {
		t.Append(model.Record{
			"Patient Account Number": r[0],
			"Patient":                r[1],
			"Date of Birth":          r[2],
		})
	}
	return t
}

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	s := Store{Path: filepath.Join(t.TempDir(), "master_patient_list.json")}
	ml, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ml.Patients) != 0 {
		t.Errorf("expected empty store, got %d patients", len(ml.Patients))
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master_patient_list.json")
	os.WriteFile(path, []byte("{not json"), 0644)
	if _, err := (Store{Path: path}).Load(); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestExtractUnique_RawKeyDedup(t *testing.T) {
	tbl := rosterTable(
		[3]string{"P1", "Jane Doe", "3/4/1980"},
		[3]string{"P1", "Jane Doe", "3/4/1980"},  // exact duplicate
		[3]string{"P2", "JANE DOE", "3/4/1980"},  // different raw spelling, kept
		[3]string{"", "Missing Id", "1/1/1990"},  // dropped
		[3]string{"P3", "", "1/1/1990"},          // dropped
		[3]string{"P4", "Sam Roe", ""},           // dropped
	)
	unique, dupes := ExtractUnique(tbl, rosterMapping())
	if len(unique) != 2 {
		t.Fatalf("expected 2 unique, got %d: %+v", len(unique), unique)
	}
	if dupes != 1 {
		t.Errorf("expected 1 duplicate skipped, got %d", dupes)
	}
	// First-seen order preserved.
	if unique[0].PromptID != "P1" || unique[1].PatientName != "JANE DOE" {
		t.Errorf("unexpected order: %+v", unique)
	}
}

func TestDiffNew(t *testing.T) {
	existing := &model.MasterList{Patients: []model.PatientIdentity{
		{PromptID: "P1", PatientName: "Jane Doe", DateOfBirth: "3/4/1980"},
	}}
	candidates := []model.PatientIdentity{
		{PromptID: "P1", PatientName: "Jane Doe", DateOfBirth: "3/4/1980"},
		{PromptID: "P2", PatientName: "John Roe", DateOfBirth: "1/2/1970"},
	}
	fresh, skipped := DiffNew(existing, candidates)
	if len(fresh) != 1 || fresh[0].PromptID != "P2" {
		t.Fatalf("unexpected new: %+v", fresh)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", skipped)
	}
}

func TestCommit_AdditiveAndStamped(t *testing.T) {
	s := Store{Path: filepath.Join(t.TempDir(), "data", "master_patient_list.json")}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	existing := &model.MasterList{Patients: []model.PatientIdentity{
		{PromptID: "P1", PatientName: "Jane Doe", DateOfBirth: "3/4/1980"},
	}}
	fresh := []model.PatientIdentity{
		{PromptID: "P2", PatientName: "John Roe", DateOfBirth: "1/2/1970"},
	}

	committed, err := s.Commit(existing, fresh, now)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if committed.TotalPatients != 2 {
		t.Errorf("TotalPatients = %d, want 2", committed.TotalPatients)
	}
	if committed.LastUpdated != now.Format(time.RFC3339) {
		t.Errorf("LastUpdated = %q", committed.LastUpdated)
	}

	back, err := s.Load()
	if err != nil {
		t.Fatalf("Load after commit: %v", err)
	}
	if len(back.Patients) != 2 || back.Patients[1].PromptID != "P2" {
		t.Errorf("persisted list mismatch: %+v", back.Patients)
	}
}

func TestUpdate_EndToEnd(t *testing.T) {
	s := Store{Path: filepath.Join(t.TempDir(), "master_patient_list.json")}
	log := zerolog.Nop()
	now := time.Now()

	first := rosterTable(
		[3]string{"P1", "Jane Doe", "3/4/1980"},
		[3]string{"P2", "John Roe", "1/2/1970"},
	)
	sum, err := Update(s, first, rosterMapping(), log, now)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(sum.NewPatients) != 2 || sum.TotalPatients != 2 {
		t.Fatalf("unexpected first summary: %+v", sum)
	}

	// Second run with one overlap and one addition.
	second := rosterTable(
		[3]string{"P2", "John Roe", "1/2/1970"},
		[3]string{"P3", "Amy Poe", "6/7/1985"},
	)
	sum, err = Update(s, second, rosterMapping(), log, now)
	if err != nil {
		t.Fatalf("Update 2: %v", err)
	}
	if sum.ExistingSkipped != 1 || len(sum.NewPatients) != 1 || sum.TotalPatients != 3 {
		t.Fatalf("unexpected second summary: %+v", sum)
	}
}

func TestUpdate_StructuralFailure(t *testing.T) {
	s := Store{Path: filepath.Join(t.TempDir(), "master_patient_list.json")}
	bad := model.NewTable("Name", "Birthday")
	bad.Append(model.Record{"Name": "x", "Birthday": "y"})

	_, err := Update(s, bad, rosterMapping(), zerolog.Nop(), time.Now())
	if err == nil {
		t.Fatal("expected structural validation error")
	}
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != "validate" {
		t.Errorf("err = %v, want validate phase error", err)
	}
	if _, err := os.Stat(s.Path); !os.IsNotExist(err) {
		t.Error("store file should not be written on validation failure")
	}
}

func TestUpdateReport(t *testing.T) {
	sum := &model.RosterSummary{
		NewPatients: []model.PatientIdentity{
			{PromptID: "P9", PatientName: "New Person", DateOfBirth: "9/9/1999"},
		},
		DuplicatesSkipped: 2,
		ExistingSkipped:   3,
		TotalPatients:     10,
	}
	md := UpdateReport(sum, "data/master_patient_list.json", time.Now())
	for _, want := range []string{"New Patients Added**: 1", "| P9 | New Person | 9/9/1999 |", "Total Patients in Master List**: 10"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
