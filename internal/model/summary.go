package model

import "time"

// RosterSummary captures metrics from one master-list update run.
type RosterSummary struct {
	SourcePath        string
	NewPatients       []PatientIdentity
	DuplicatesSkipped int
	ExistingSkipped   int
	TotalPatients     int
	Duration          time.Duration
}

// MatchSummary captures metrics from one identity-resolution run.
type MatchSummary struct {
	TotalRecords  int
	Matched       int
	Unmatched     int
	CloseMatches  int
	UserConfirmed int
	Deferred      int
	Duration      time.Duration
}

// MatchRate returns matched records as a percentage of the input, 0 when the
// input is empty.
func (s MatchSummary) MatchRate() float64 {
	if s.TotalRecords == 0 {
		return 0.0
	}
	return float64(s.Matched) / float64(s.TotalRecords) * 100
}

// DeidSummary captures metrics from one de-identification run.
type DeidSummary struct {
	TotalRecords     int
	MatchedRecords   int
	UnmatchedRecords int
	ColumnsRemoved   []string
	ColumnsKept      []string
}

// ReconSummary captures metrics from one reconciliation run.
type ReconSummary struct {
	PromptTotal      int
	AMDTotal         int
	Matched          int
	PromptOnly       int
	AMDOnly          int
	Discrepancies    int
	PromptDupKeys    int
	AMDDupKeys       int
	UnparseableMoney int
	DurationMatch    time.Duration
	DurationCompare  time.Duration
	DurationTotal    time.Duration
}

// MatchQuality returns the percentage of matched records with no
// discrepancy. An empty matched set yields 0.0, never a division error.
func (s ReconSummary) MatchQuality() float64 {
	if s.Matched == 0 {
		return 0.0
	}
	return float64(s.Matched-s.Discrepancies) / float64(s.Matched) * 100
}

// AMDMatchPct returns matched records as a percentage of the AMD side.
func (s ReconSummary) AMDMatchPct() float64 {
	if s.AMDTotal == 0 {
		return 0.0
	}
	return float64(s.Matched) / float64(s.AMDTotal) * 100
}
