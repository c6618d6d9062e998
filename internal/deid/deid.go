// Package deid strips protected health information from a matched billing
// ledger. Only rows with a resolved account ID are safe to hand downstream;
// rows still carrying a matching sentinel are split off with their PHI
// intact so staff can finish the follow-up.
package deid

import (
	"fmt"
	"strings"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/resolve"
)

// ColumnAccountNumber replaces the resolver's Prompt_ID header in the
// de-identified extract.
const ColumnAccountNumber = "Patient Account Number"

// Result is the outcome of one de-identification run.
type Result struct {
	// Deidentified holds every input row with PHI columns removed and the
	// account-number identifier in place of Prompt_ID.
	Deidentified *model.Table
	// Unmatched holds only the sentinel rows, with PHI columns retained.
	Unmatched *model.Table
	Summary   model.DeidSummary
}

// SplitAndStrip de-identifies a matched ledger. The input must carry the
// resolver's Prompt_ID column; its absence is a structural failure.
func SplitAndStrip(src *model.Table, phi config.PHIConfig) (*Result, error) {
	if !src.HasColumn(resolve.ColumnPromptID) {
		return nil, fmt.Errorf("input has no %s column; run matching first", resolve.ColumnPromptID)
	}

	deid := &model.Table{
		Columns: append([]string(nil), src.Columns...),
		Rows:    make([]model.Record, 0, len(src.Rows)),
	}
	unmatched := model.NewTable(src.Columns...)

	res := &Result{Deidentified: deid, Unmatched: unmatched}
	res.Summary.TotalRecords = len(src.Rows)
	for _, row := range src.Rows {
		deid.Append(row.Clone())
		switch row[resolve.ColumnPromptID] {
		case resolve.SentinelUnmatched, resolve.SentinelCloseMatch:
			res.Summary.UnmatchedRecords++
			unmatched.Append(row.Clone())
		default:
			res.Summary.MatchedRecords++
		}
	}

	// Both partitions carry the billing-side identifier header, so the
	// follow-up file joins against downstream outputs without translation.
	deid.RenameColumn(resolve.ColumnPromptID, ColumnAccountNumber)
	unmatched.RenameColumn(resolve.ColumnPromptID, ColumnAccountNumber)

	var remove []string
	for _, col := range deid.Columns {
		if Removable(col, phi) {
			remove = append(remove, col)
		}
	}
	deid.DropColumns(remove...)

	res.Summary.ColumnsRemoved = remove
	res.Summary.ColumnsKept = append([]string(nil), deid.Columns...)
	return res, nil
}

// Removable reports whether a column header matches a PHI removal pattern.
// Keep-list entries win over removal patterns.
func Removable(col string, phi config.PHIConfig) bool {
	lower := strings.ToLower(col)
	for _, keep := range phi.KeepColumns {
		if strings.Contains(lower, keep) {
			return false
		}
	}
	for _, pat := range phi.RemovePatterns {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	return false
}

// Validate confirms the de-identified table is safe to release: the account
// identifier is present and no header still names a patient or a birth date.
func Validate(t *model.Table) error {
	if !t.HasColumn(ColumnAccountNumber) {
		return fmt.Errorf("de-identified output is missing the %s column", ColumnAccountNumber)
	}
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		if col == ColumnAccountNumber {
			continue
		}
		if strings.Contains(lower, "birth") || strings.Contains(lower, "dob") {
			return fmt.Errorf("PHI column survived de-identification: %s", col)
		}
		if strings.Contains(lower, "patient") && strings.Contains(lower, "name") {
			return fmt.Errorf("PHI column survived de-identification: %s", col)
		}
	}
	return nil
}
