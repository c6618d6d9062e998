// Package recon performs the three-way join of the clinical (Prompt) and
// billing (AMD) de-identified ledgers on (patient account, service date) and
// compares the financial fields of every matched pair.
package recon

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/normalize"
)

// Comparison is the financial comparison for one matched key pair.
type Comparison struct {
	Key              string
	Account          string
	DOS              string
	PrimaryInsurance string

	PromptAllowed       float64
	AMDCharges          float64
	PromptInsurancePaid float64
	AMDInsurancePaid    float64
	PromptTotalPaid     float64
	AMDTotalPaid        float64

	Discrepancies []string
}

// OnlyRecord is one row present in exactly one ledger.
type OnlyRecord struct {
	Key string
	DOS string
	Row model.Record
}

// Result holds the three output partitions and run statistics. Every slice
// is sorted by match key so repeated runs produce identical files.
type Result struct {
	Comparisons []Comparison
	PromptOnly  []OnlyRecord
	AMDOnly     []OnlyRecord
	Summary     model.ReconSummary
}

type lookup struct {
	rows map[string]model.Record
	keys []string
	dups int
}

// buildLookup indexes a ledger by account|service-date. Rows with neither an
// account nor a date are dropped; a duplicate key keeps the last row seen
// and is counted, not deduplicated.
func buildLookup(t *model.Table, accountCol, dateCol string) lookup {
	l := lookup{rows: make(map[string]model.Record, len(t.Rows))}
	for _, row := range t.Rows {
		key := MatchKey(row[accountCol], row[dateCol])
		if key == "|" {
			continue
		}
		if _, seen := l.rows[key]; seen {
			l.dups++
		}
		l.rows[key] = row
	}
	l.keys = make([]string, 0, len(l.rows))
	for k := range l.rows {
		l.keys = append(l.keys, k)
	}
	sort.Strings(l.keys)
	return l
}

// MatchKey builds the join key from a raw account value and service date.
func MatchKey(account, date string) string {
	return strings.TrimSpace(account) + "|" + normalize.ServiceDate(date)
}

// Reconcile joins the two ledgers and compares the matched pairs. The Prompt
// side reads columns through its ledger mapping; the AMD side is the
// de-identified extract, keyed by the canonical account-number column.
func Reconcile(prompt, amd *model.Table, cfg *config.Config, log zerolog.Logger) (*Result, error) {
	pm := cfg.Ledgers[config.LedgerPrompt]
	am := cfg.Ledgers[config.LedgerAMD]

	pAccount := pm.Column("account_number")
	pDate := pm.Column("service_date")
	aAccount := pm.Column("account_number") // de-identified extract shares the Prompt header
	aDate := am.Column("service_date")

	for _, c := range []struct{ t *model.Table; col, side string }{
		{prompt, pAccount, "prompt"},
		{prompt, pDate, "prompt"},
		{amd, aAccount, "amd"},
		{amd, aDate, "amd"},
	} {
		if !c.t.HasColumn(c.col) {
			return nil, fmt.Errorf("%s ledger is missing column %q", c.side, c.col)
		}
	}

	res := &Result{}
	res.Summary.PromptTotal = prompt.Len()
	res.Summary.AMDTotal = amd.Len()

	matchStart := time.Now()
	pl := buildLookup(prompt, pAccount, pDate)
	al := buildLookup(amd, aAccount, aDate)
	res.Summary.PromptDupKeys = pl.dups
	res.Summary.AMDDupKeys = al.dups
	if pl.dups > 0 || al.dups > 0 {
		log.Warn().
			Int("prompt_dup_keys", pl.dups).
			Int("amd_dup_keys", al.dups).
			Msg("duplicate match keys within a ledger, last row wins")
	}

	var matchedKeys []string
	for _, k := range pl.keys {
		if _, ok := al.rows[k]; ok {
			matchedKeys = append(matchedKeys, k)
		} else {
			row := pl.rows[k]
			res.PromptOnly = append(res.PromptOnly, OnlyRecord{Key: k, DOS: keyDate(k), Row: row})
		}
	}
	for _, k := range al.keys {
		if _, ok := pl.rows[k]; !ok {
			res.AMDOnly = append(res.AMDOnly, OnlyRecord{Key: k, DOS: keyDate(k), Row: al.rows[k]})
		}
	}
	res.Summary.Matched = len(matchedKeys)
	res.Summary.PromptOnly = len(res.PromptOnly)
	res.Summary.AMDOnly = len(res.AMDOnly)
	res.Summary.DurationMatch = time.Since(matchStart)

	compareStart := time.Now()
	tol := cfg.Tolerance()
	for _, k := range matchedKeys {
		pRow, aRow := pl.rows[k], al.rows[k]

		c := Comparison{
			Key:              k,
			Account:          strings.TrimSpace(pRow[pAccount]),
			DOS:              keyDate(k),
			PrimaryInsurance: strings.TrimSpace(pRow[pm.Column("primary_insurance")]),
		}
		c.PromptAllowed = res.money(pRow[pm.Column("allowed")], &log)
		c.AMDCharges = res.money(aRow[am.Column("charges")], &log)
		c.PromptInsurancePaid = res.money(pRow[pm.Column("insurance_paid")], &log)
		c.AMDInsurancePaid = res.money(aRow[am.Column("insurance_payments")], &log)
		c.PromptTotalPaid = res.money(pRow[pm.Column("total_paid")], &log)
		c.AMDTotalPaid = res.money(aRow[am.Column("patient_payments")], &log) + c.AMDInsurancePaid

		if !withinTolerance(c.PromptAllowed, c.AMDCharges, tol) {
			c.Discrepancies = append(c.Discrepancies,
				fmt.Sprintf("BILLED: Prompt=$%.2f vs AMD=$%.2f", c.PromptAllowed, c.AMDCharges))
		}
		if !withinTolerance(c.PromptInsurancePaid, c.AMDInsurancePaid, tol) {
			c.Discrepancies = append(c.Discrepancies,
				fmt.Sprintf("INSURANCE: Prompt=$%.2f vs AMD=$%.2f", c.PromptInsurancePaid, c.AMDInsurancePaid))
		}
		if !withinTolerance(c.PromptTotalPaid, c.AMDTotalPaid, tol) {
			c.Discrepancies = append(c.Discrepancies,
				fmt.Sprintf("TOTAL PAID: Prompt=$%.2f vs AMD=$%.2f", c.PromptTotalPaid, c.AMDTotalPaid))
		}
		res.Summary.Discrepancies += len(c.Discrepancies)
		res.Comparisons = append(res.Comparisons, c)
	}
	res.Summary.DurationCompare = time.Since(compareStart)
	res.Summary.DurationTotal = res.Summary.DurationMatch + res.Summary.DurationCompare

	return res, nil
}

func withinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// money parses a currency cell, counting garbage values instead of failing.
func (r *Result) money(s string, log *zerolog.Logger) float64 {
	v, ok := normalize.MoneyOK(s)
	if !ok {
		r.Summary.UnparseableMoney++
		log.Debug().Str("value", s).Msg("unparseable currency value treated as zero")
	}
	return v
}

func keyDate(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[i+1:]
		}
	}
	return ""
}
