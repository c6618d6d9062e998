package resolve

import (
	"fmt"
	"strings"
	"time"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/normalize"
)

// PendingGroup is one unique close-match identity awaiting disposition. All
// ledger rows sharing the normalized-name + original-DOB composite key are
// grouped so the reviewer is asked once per patient, not once per row.
type PendingGroup struct {
	Key        string      `yaml:"key"` // normalized name | raw DOB
	Name       string      `yaml:"name"`
	DOB        string      `yaml:"dob"`
	Candidates []Candidate `yaml:"candidates"`
	Rows       []int       `yaml:"rows"` // zero-based ledger row indexes
}

// UnmatchedRecord retains the identity of a row that matched nothing, for
// the manual follow-up list. Row is the spreadsheet row number (header is
// row 1).
type UnmatchedRecord struct {
	Name string
	DOB  string
	Row  int
}

// ConfirmedMatch records one reviewer-approved close match for the report.
type ConfirmedMatch struct {
	LedgerName string
	MasterName string
	PromptID   string
	DOB        string
}

// Resolution is the outcome of matching one ledger against the index. The
// table is a copy of the input with the Prompt_ID column inserted; pending
// groups hold every close match still awaiting a decision.
type Resolution struct {
	Table     *model.Table
	Pending   []PendingGroup
	Unmatched []UnmatchedRecord
	Confirmed []ConfirmedMatch
	Summary   model.MatchSummary

	pendingByKey map[string]int // key -> index into Pending
}

// FindColumns locates the patient-name and DOB columns. The explicit column
// mapping is authoritative; fuzzy header sniffing is the fallback when the
// mapped headers are absent. A ledger with neither is a structural failure.
func FindColumns(t *model.Table, m config.LedgerMapping) (nameCol, dobCol string, err error) {
	if col := m.Column("patient_name"); t.HasColumn(col) {
		nameCol = col
	}
	if col := m.Column("date_of_birth"); t.HasColumn(col) {
		dobCol = col
	}
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		if nameCol == "" && strings.Contains(lower, "patient") && strings.Contains(lower, "name") {
			nameCol = col
		}
		if dobCol == "" && (strings.Contains(lower, "birth") || strings.Contains(lower, "dob")) {
			dobCol = col
		}
	}
	if nameCol == "" || dobCol == "" {
		return "", "", fmt.Errorf("could not identify patient name and DOB columns (found: %s)",
			strings.Join(t.Columns, ", "))
	}
	return nameCol, dobCol, nil
}

// Match resolves every ledger row against the index. Blank identity values
// are per-row matching failures, never fatal. The returned resolution still
// carries CLOSE_MATCH sentinels; callers apply decisions afterwards.
func Match(src *model.Table, idx *Index, nameCol, dobCol string) *Resolution {
	start := time.Now()

	out := &model.Table{
		Columns: append([]string(nil), src.Columns...),
		Rows:    make([]model.Record, 0, len(src.Rows)),
	}
	for _, row := range src.Rows {
		out.Append(row.Clone())
	}

	res := &Resolution{
		Table:        out,
		pendingByKey: make(map[string]int),
	}
	res.Summary.TotalRecords = len(out.Rows)

	ids := make([]string, len(out.Rows))
	for i, row := range out.Rows {
		name := strings.TrimSpace(row[nameCol])
		dob := strings.TrimSpace(row[dobCol])

		if id, ok := idx.Exact(name, dob); ok && name != "" && dob != "" {
			ids[i] = id
			res.Summary.Matched++
			continue
		}

		if cands := idx.ByDOB(dob); len(cands) > 0 && dob != "" {
			ids[i] = SentinelCloseMatch
			res.Summary.CloseMatches++
			key := normalize.Name(name) + "|" + dob
			gi, ok := res.pendingByKey[key]
			if !ok {
				gi = len(res.Pending)
				res.pendingByKey[key] = gi
				res.Pending = append(res.Pending, PendingGroup{
					Key:        key,
					Name:       name,
					DOB:        dob,
					Candidates: cands,
				})
			}
			res.Pending[gi].Rows = append(res.Pending[gi].Rows, i)
			continue
		}

		ids[i] = SentinelUnmatched
		res.Summary.Unmatched++
		res.Unmatched = append(res.Unmatched, UnmatchedRecord{
			Name: name,
			DOB:  dob,
			Row:  i + 2, // header row plus one-based indexing
		})
	}

	// Insert Prompt_ID right after the patient name column.
	_ = out.InsertColumn(out.ColumnIndex(nameCol)+1, ColumnPromptID, ids)

	res.Summary.Duration = time.Since(start)
	return res
}

// Apply writes reviewer decisions into the resolution. The decision map is
// keyed by PendingGroup.Key; the value is a Prompt ID or SentinelUnmatched.
// A decided group's sentinel is replaced on every row it covers; undecided
// groups stay pending (and visibly CLOSE_MATCH in the output).
func (r *Resolution) Apply(decisions map[string]string) int {
	if len(decisions) == 0 {
		r.Summary.Deferred = r.remainingRows()
		return 0
	}
	applied := 0
	var still []PendingGroup
	for _, g := range r.Pending {
		id, ok := decisions[g.Key]
		if !ok {
			still = append(still, g)
			continue
		}
		applied++
		for _, i := range g.Rows {
			r.Table.Rows[i][ColumnPromptID] = id
			if id == SentinelUnmatched {
				r.Summary.Unmatched++
				r.Unmatched = append(r.Unmatched, UnmatchedRecord{Name: g.Name, DOB: g.DOB, Row: i + 2})
			} else {
				r.Summary.Matched++
			}
		}
		if id != SentinelUnmatched {
			r.Summary.UserConfirmed++
			r.Confirmed = append(r.Confirmed, ConfirmedMatch{
				LedgerName: g.Name,
				MasterName: masterName(g.Candidates, id),
				PromptID:   id,
				DOB:        g.DOB,
			})
		}
	}
	r.Pending = still
	r.pendingByKey = make(map[string]int, len(still))
	for i, g := range still {
		r.pendingByKey[g.Key] = i
	}
	r.Summary.Deferred = r.remainingRows()
	return applied
}

func (r *Resolution) remainingRows() int {
	n := 0
	for _, g := range r.Pending {
		n += len(g.Rows)
	}
	return n
}

func masterName(cands []Candidate, promptID string) string {
	for _, c := range cands {
		if c.PromptID == promptID {
			return c.OriginalName
		}
	}
	return ""
}
