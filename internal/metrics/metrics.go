// Package metrics computes revenue KPIs from the column-mapped Prompt
// ledger: an executive summary, dimensional breakdowns, the collection
// pipeline, and red-flag detection.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/model"
	"github.com/nateginn/ART-Performance/internal/normalize"
)

// Calculator computes all metrics from one ledger snapshot.
type Calculator struct {
	t *model.Table
	m config.LedgerMapping
}

// New builds a calculator over a Prompt ledger using its column mapping.
func New(t *model.Table, m config.LedgerMapping) *Calculator {
	return &Calculator{t: t, m: m}
}

// requiredFields must all be mapped to present columns before any
// calculation runs.
var requiredFields = []string{
	"account_number", "service_date", "visit_stage", "provider",
	"facility", "insurance_type", "allowed", "patient_paid",
	"insurance_paid", "secondary_insurance_paid", "total_paid", "written_off",
}

// Validate confirms every required financial column is present.
func (c *Calculator) Validate() error {
	var missing []string
	for _, f := range requiredFields {
		if col := c.m.Column(f); !c.t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("ledger is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ExecutiveSummary is the high-level financial picture.
type ExecutiveSummary struct {
	TotalVisits           int
	UniquePatients        int
	TotalBilled           float64
	TotalCollected        float64
	CollectionRate        float64
	AvgCollectionPerVisit float64
	TotalWrittenOff       float64
	TotalHanging          float64
}

// ExecutiveSummary totals the ledger. Hanging is billed minus collected
// minus write-offs, floored at zero.
func (c *Calculator) ExecutiveSummary() ExecutiveSummary {
	s := ExecutiveSummary{TotalVisits: c.t.Len()}

	patients := make(map[string]struct{})
	for _, row := range c.t.Rows {
		patients[strings.TrimSpace(row[c.m.Column("account_number")])] = struct{}{}
		s.TotalBilled += c.money(row, "allowed")
		s.TotalCollected += c.money(row, "total_paid")
		s.TotalWrittenOff += c.money(row, "written_off")
	}
	s.UniquePatients = len(patients)

	if s.TotalBilled > 0 {
		s.CollectionRate = round2(s.TotalCollected / s.TotalBilled * 100)
	}
	if s.TotalVisits > 0 {
		s.AvgCollectionPerVisit = round2(s.TotalCollected / float64(s.TotalVisits))
	}
	s.TotalHanging = round2(math.Max(0, s.TotalBilled-s.TotalCollected-s.TotalWrittenOff))
	s.TotalBilled = round2(s.TotalBilled)
	s.TotalCollected = round2(s.TotalCollected)
	s.TotalWrittenOff = round2(s.TotalWrittenOff)
	return s
}

// GroupRow is one row of a dimensional breakdown (provider, insurance type,
// or facility).
type GroupRow struct {
	Name           string
	Visits         int
	Billed         float64
	Collected      float64
	CollectionRate float64
	AvgPerVisit    float64
	PctOfVisits    float64
	PctOfRevenue   float64
	WrittenOff     float64
}

// ProviderPerformance breaks revenue down per provider, sorted by collected
// amount descending.
func (c *Calculator) ProviderPerformance() []GroupRow {
	return c.groupBy("provider", true)
}

// InsuranceAnalysis breaks revenue down per primary insurance type.
func (c *Calculator) InsuranceAnalysis() []GroupRow {
	return c.groupBy("insurance_type", false)
}

// FacilityComparison breaks revenue down per visit facility.
func (c *Calculator) FacilityComparison() []GroupRow {
	return c.groupBy("facility", false)
}

func (c *Calculator) groupBy(field string, writeOffs bool) []GroupRow {
	col := c.m.Column(field)
	groups := make(map[string]*GroupRow)
	totalCollected := 0.0
	for _, row := range c.t.Rows {
		name := strings.TrimSpace(row[col])
		g, ok := groups[name]
		if !ok {
			g = &GroupRow{Name: name}
			groups[name] = g
		}
		g.Visits++
		g.Billed += c.money(row, "allowed")
		collected := c.money(row, "total_paid")
		g.Collected += collected
		totalCollected += collected
		if writeOffs {
			g.WrittenOff += c.money(row, "written_off")
		}
	}

	out := make([]GroupRow, 0, len(groups))
	for _, g := range groups {
		if g.Billed > 0 {
			g.CollectionRate = round2(g.Collected / g.Billed * 100)
		}
		if g.Visits > 0 {
			g.AvgPerVisit = round2(g.Collected / float64(g.Visits))
		}
		if c.t.Len() > 0 {
			g.PctOfVisits = round2(float64(g.Visits) / float64(c.t.Len()) * 100)
		}
		if totalCollected > 0 {
			g.PctOfRevenue = round2(g.Collected / totalCollected * 100)
		}
		g.Billed = round2(g.Billed)
		g.Collected = round2(g.Collected)
		g.WrittenOff = round2(g.WrittenOff)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Collected != out[j].Collected {
			return out[i].Collected > out[j].Collected
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Pipeline shows where money sits between billing and collection.
type Pipeline struct {
	Billed         float64
	InsurancePaid  float64
	PatientPaid    float64
	WrittenOff     float64
	TotalCollected float64
	Outstanding    float64
	PctInsurance   float64
	PctPatient     float64
	PctCollected   float64
	PctWrittenOff  float64
	PctOutstanding float64
}

// CollectionPipeline totals each stage of the collection funnel.
func (c *Calculator) CollectionPipeline() Pipeline {
	var p Pipeline
	for _, row := range c.t.Rows {
		p.Billed += c.money(row, "allowed")
		p.InsurancePaid += c.money(row, "insurance_paid")
		p.PatientPaid += c.money(row, "patient_paid")
		p.WrittenOff += c.money(row, "written_off")
		p.TotalCollected += c.money(row, "total_paid")
	}
	p.Outstanding = math.Max(0, p.Billed-p.TotalCollected-p.WrittenOff)
	if p.Billed > 0 {
		p.PctInsurance = round2(p.InsurancePaid / p.Billed * 100)
		p.PctPatient = round2(p.PatientPaid / p.Billed * 100)
		p.PctCollected = round2(p.TotalCollected / p.Billed * 100)
		p.PctWrittenOff = round2(p.WrittenOff / p.Billed * 100)
		p.PctOutstanding = round2(p.Outstanding / p.Billed * 100)
	}
	p.Billed = round2(p.Billed)
	p.InsurancePaid = round2(p.InsurancePaid)
	p.PatientPaid = round2(p.PatientPaid)
	p.WrittenOff = round2(p.WrittenOff)
	p.TotalCollected = round2(p.TotalCollected)
	p.Outstanding = round2(p.Outstanding)
	return p
}

// StageRow is one visit-stage bucket.
type StageRow struct {
	Stage      string
	Count      int
	PctOfTotal float64
	Billed     float64
	Collected  float64
}

// VisitStageBreakdown counts visits per stage, sorted by count descending.
func (c *Calculator) VisitStageBreakdown() []StageRow {
	col := c.m.Column("visit_stage")
	groups := make(map[string]*StageRow)
	for _, row := range c.t.Rows {
		stage := strings.TrimSpace(row[col])
		g, ok := groups[stage]
		if !ok {
			g = &StageRow{Stage: stage}
			groups[stage] = g
		}
		g.Count++
		g.Billed += c.money(row, "allowed")
		g.Collected += c.money(row, "total_paid")
	}
	out := make([]StageRow, 0, len(groups))
	for _, g := range groups {
		if c.t.Len() > 0 {
			g.PctOfTotal = round2(float64(g.Count) / float64(c.t.Len()) * 100)
		}
		g.Billed = round2(g.Billed)
		g.Collected = round2(g.Collected)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Stage < out[j].Stage
	})
	return out
}

func (c *Calculator) money(row model.Record, field string) float64 {
	return normalize.Money(row[c.m.Column(field)])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
