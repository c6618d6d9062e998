// Package roster maintains the master patient list: the single source of
// truth mapping (name, date of birth) pairs to stable Prompt account IDs.
// The list is additive-only; committed records are never edited or removed.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
)

// PipelineError wraps an error with the update phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Store wraps the on-disk master list location.
type Store struct {
	Path string
}

// Load reads the persisted master list. A missing file is the bootstrap
// case and yields an empty list, not an error.
func (s Store) Load() (*model.MasterList, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return &model.MasterList{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read master list: %w", err)
	}
	var ml model.MasterList
	if err := json.Unmarshal(data, &ml); err != nil {
		return nil, fmt.Errorf("parse master list: %w", err)
	}
	return &ml, nil
}

// save writes the master list document with an updated timestamp and total.
func (s Store) save(ml *model.MasterList, now time.Time) error {
	ml.LastUpdated = now.Format(time.RFC3339)
	ml.TotalPatients = len(ml.Patients)

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create master list dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(ml, "", "  ")
	if err != nil {
		return fmt.Errorf("encode master list: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write master list: %w", err)
	}
	return nil
}

// ValidateSource checks that the roster extract carries the three mapped
// columns. A missing column aborts before any extraction work.
func ValidateSource(t *model.Table, m config.LedgerMapping) error {
	var missing []string
	for _, field := range []string{"account_number", "patient_name", "date_of_birth"} {
		if col := m.Column(field); !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("roster source missing required columns: %s (found: %s)",
			strings.Join(missing, ", "), strings.Join(t.Columns, ", "))
	}
	return nil
}

// ExtractUnique deduplicates the extract by the raw (not normalized)
// name|dob pair, keeping first-seen order. Rows missing any of the three
// fields are dropped. Returns the unique identities and the in-batch
// duplicate count.
//
// Raw-key dedupe means two spellings of the same patient in one extract are
// both kept; they only surface later during identity resolution.
func ExtractUnique(t *model.Table, m config.LedgerMapping) (unique []model.PatientIdentity, dupes int) {
	idCol := m.Column("account_number")
	nameCol := m.Column("patient_name")
	dobCol := m.Column("date_of_birth")

	seen := make(map[string]bool)
	for _, row := range t.Rows {
		p := model.PatientIdentity{
			PromptID:    strings.TrimSpace(row[idCol]),
			PatientName: strings.TrimSpace(row[nameCol]),
			DateOfBirth: strings.TrimSpace(row[dobCol]),
		}
		if p.PromptID == "" || p.PatientName == "" || p.DateOfBirth == "" {
			continue
		}
		if seen[p.RawKey()] {
			dupes++
			continue
		}
		seen[p.RawKey()] = true
		unique = append(unique, p)
	}
	return unique, dupes
}

// DiffNew partitions candidates against the existing list using the same
// raw-string key as ExtractUnique. Returns the new identities and the count
// of already-known ones skipped.
func DiffNew(existing *model.MasterList, candidates []model.PatientIdentity) (fresh []model.PatientIdentity, skipped int) {
	known := make(map[string]bool, len(existing.Patients))
	for _, p := range existing.Patients {
		known[p.RawKey()] = true
	}
	for _, p := range candidates {
		if known[p.RawKey()] {
			skipped++
			continue
		}
		fresh = append(fresh, p)
	}
	return fresh, skipped
}

// Commit unions the existing list with the new identities and persists the
// document. Additive-only.
func (s Store) Commit(existing *model.MasterList, fresh []model.PatientIdentity, now time.Time) (*model.MasterList, error) {
	out := &model.MasterList{
		Patients: append(append([]model.PatientIdentity(nil), existing.Patients...), fresh...),
	}
	if err := s.save(out, now); err != nil {
		return nil, err
	}
	return out, nil
}

// Update runs the full maintenance pass: load, validate, extract, diff,
// commit. The source table is the trusted Prompt roster extract.
func Update(s Store, src *model.Table, m config.LedgerMapping, log zerolog.Logger, now time.Time) (*model.RosterSummary, error) {
	start := time.Now()

	if err := ValidateSource(src, m); err != nil {
		return nil, &PipelineError{Phase: "validate", Err: err}
	}

	existing, err := s.Load()
	if err != nil {
		return nil, &PipelineError{Phase: "load", Err: err}
	}
	log.Info().Int("patients", len(existing.Patients)).Str("path", s.Path).Msg("master list loaded")

	unique, dupes := ExtractUnique(src, m)
	if len(unique) == 0 {
		return nil, &PipelineError{Phase: "extract", Err: fmt.Errorf("no valid patients found in roster source")}
	}
	log.Info().Int("unique", len(unique)).Int("duplicates_skipped", dupes).Msg("roster extract deduplicated")

	fresh, skipped := DiffNew(existing, unique)
	log.Info().Int("new", len(fresh)).Int("existing_skipped", skipped).Msg("new patients identified")

	committed, err := s.Commit(existing, fresh, now)
	if err != nil {
		return nil, &PipelineError{Phase: "commit", Err: err}
	}
	log.Info().Int("total", committed.TotalPatients).Msg("master list committed")

	return &model.RosterSummary{
		NewPatients:       fresh,
		DuplicatesSkipped: dupes,
		ExistingSkipped:   skipped,
		TotalPatients:     committed.TotalPatients,
		Duration:          time.Since(start),
	}, nil
}
