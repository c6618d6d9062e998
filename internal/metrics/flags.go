package metrics

import (
	"fmt"
	"strings"
)

// Red flag severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Thresholds for flag detection.
const (
	DefaultCollectionRateThreshold = 70.0
	writeOffPctThreshold           = 15.0
)

// Visit stages that legitimately carry no payment.
var unbilledStages = map[string]bool{
	"Not Started":      true,
	"Patient Canceled": true,
	"Center Canceled":  true,
}

// RedFlag is one condition needing attention.
type RedFlag struct {
	Severity        string
	Type            string
	Description     string
	AffectedRecords int
	Details         string
}

// RedFlags scans the computed breakdowns for collection problems. A zero
// threshold uses the default.
func (c *Calculator) RedFlags(threshold float64) []RedFlag {
	if threshold <= 0 {
		threshold = DefaultCollectionRateThreshold
	}
	var flags []RedFlag

	for _, ins := range c.InsuranceAnalysis() {
		if ins.CollectionRate < threshold && ins.Billed > 0 {
			flags = append(flags, RedFlag{
				Severity:        SeverityMedium,
				Type:            "Low Insurance Collection Rate",
				Description:     fmt.Sprintf("%s has collection rate of %.2f%% (threshold: %.0f%%)", ins.Name, ins.CollectionRate, threshold),
				AffectedRecords: ins.Visits,
				Details:         fmt.Sprintf("Billed: $%.2f, Collected: $%.2f", ins.Billed, ins.Collected),
			})
		}
	}

	zeroCollected := 0
	zeroTotal := 0.0
	stageCol := c.m.Column("visit_stage")
	for _, row := range c.t.Rows {
		stage := strings.TrimSpace(row[stageCol])
		allowed := c.money(row, "allowed")
		if c.money(row, "total_paid") == 0 && allowed > 0 && !unbilledStages[stage] {
			zeroCollected++
			zeroTotal += allowed
		}
	}
	if zeroCollected > 0 {
		flags = append(flags, RedFlag{
			Severity:        SeverityHigh,
			Type:            "Uncollected Claims with Balance",
			Description:     fmt.Sprintf("%d claims have $0 collected but outstanding balance", zeroCollected),
			AffectedRecords: zeroCollected,
			Details:         fmt.Sprintf("Total amount: $%.2f", zeroTotal),
		})
	}

	sum := c.ExecutiveSummary()
	if sum.TotalBilled > 0 {
		writeOffPct := sum.TotalWrittenOff / sum.TotalBilled * 100
		if writeOffPct > writeOffPctThreshold {
			flags = append(flags, RedFlag{
				Severity:    SeverityMedium,
				Type:        "High Write-off Percentage",
				Description: fmt.Sprintf("Write-offs are %.2f%% of billed amount (threshold: %.0f%%)", writeOffPct, writeOffPctThreshold),
				Details:     fmt.Sprintf("Total written off: $%.2f", sum.TotalWrittenOff),
			})
		}
	}

	for _, p := range c.ProviderPerformance() {
		if p.CollectionRate < threshold && p.Billed > 0 {
			flags = append(flags, RedFlag{
				Severity:        SeverityLow,
				Type:            "Provider Below Collection Threshold",
				Description:     fmt.Sprintf("%s has collection rate of %.2f%%", p.Name, p.CollectionRate),
				AffectedRecords: p.Visits,
				Details:         fmt.Sprintf("Billed: $%.2f, Collected: $%.2f", p.Billed, p.Collected),
			})
		}
	}
	return flags
}

// All bundles every metric for one report.
type All struct {
	Executive  ExecutiveSummary
	Providers  []GroupRow
	Insurance  []GroupRow
	Facilities []GroupRow
	Pipeline   Pipeline
	Stages     []StageRow
	Flags      []RedFlag
}

// Compute validates the ledger and runs every calculation.
func (c *Calculator) Compute() (*All, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &All{
		Executive:  c.ExecutiveSummary(),
		Providers:  c.ProviderPerformance(),
		Insurance:  c.InsuranceAnalysis(),
		Facilities: c.FacilityComparison(),
		Pipeline:   c.CollectionPipeline(),
		Stages:     c.VisitStageBreakdown(),
		Flags:      c.RedFlags(DefaultCollectionRateThreshold),
	}, nil
}
