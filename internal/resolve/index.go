// Package resolve matches incoming (name, DOB)-keyed billing rows to stable
// Prompt account IDs from the master patient list. Exact matches use the
// normalized name+DOB pair; a DOB-only index surfaces close matches that
// need a human disposition.
package resolve

import (
	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/normalize"
)

// Sentinel values emitted in the Prompt_ID column for rows that did not
// resolve to a real account ID.
const (
	SentinelUnmatched  = "UNMATCHED"
	SentinelCloseMatch = "CLOSE_MATCH"
)

// ColumnPromptID is the resolver's output column, inserted right after the
// patient name column.
const ColumnPromptID = "Prompt_ID"

// Candidate is one master-list identity offered during close-match review.
type Candidate struct {
	PromptID     string `yaml:"prompt_id"`
	Name         string `yaml:"name"`          // normalized, used for grouping
	OriginalName string `yaml:"original_name"` // raw spelling, shown to the reviewer
	DOB          string `yaml:"dob"`           // raw master-list DOB
}

// Index holds the two lookup structures built from the master list: the
// exact normalized name|DOB index and the DOB-only candidate index.
type Index struct {
	exact map[string]string
	byDOB map[string][]Candidate
}

// NewIndex builds both indexes from a master list.
func NewIndex(ml *model.MasterList) *Index {
	idx := &Index{
		exact: make(map[string]string, len(ml.Patients)),
		byDOB: make(map[string][]Candidate),
	}
	for _, p := range ml.Patients {
		idx.exact[normalize.IdentityKey(p.PatientName, p.DateOfBirth)] = p.PromptID

		dob := normalize.DOB(p.DateOfBirth)
		idx.byDOB[dob] = append(idx.byDOB[dob], Candidate{
			PromptID:     p.PromptID,
			Name:         normalize.Name(p.PatientName),
			OriginalName: p.PatientName,
			DOB:          p.DateOfBirth,
		})
	}
	return idx
}

// Exact looks up a raw (name, dob) pair in the normalized exact index.
func (idx *Index) Exact(name, dob string) (string, bool) {
	id, ok := idx.exact[normalize.IdentityKey(name, dob)]
	return id, ok
}

// ByDOB returns master-list identities sharing the normalized DOB.
func (idx *Index) ByDOB(dob string) []Candidate {
	return idx.byDOB[normalize.DOB(dob)]
}

// Size returns the number of unique exact-index entries.
func (idx *Index) Size() int {
	return len(idx.exact)
}
