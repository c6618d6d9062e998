package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ledger names recognized in column-mapping configuration.
const (
	LedgerRoster = "roster"
	LedgerAMD    = "amd"
	LedgerPrompt = "prompt"
)

// LedgerMapping is the explicit, versioned column mapping for one source
// ledger: logical field name → exact header text. Explicit mappings are the
// primary mechanism; fuzzy header sniffing is only a fallback for the AMD
// name/DOB columns.
type LedgerMapping struct {
	Version int               `yaml:"version"`
	Columns map[string]string `yaml:"columns"`
}

// Column returns the mapped header for a logical field, or "".
func (m LedgerMapping) Column(field string) string {
	return m.Columns[field]
}

// PHIConfig drives the de-identification filter.
type PHIConfig struct {
	// RemovePatterns are case-insensitive substrings; any column whose
	// header contains one is dropped.
	RemovePatterns []string `yaml:"remove_patterns"`
	// KeepColumns override the patterns for headers required downstream.
	KeepColumns []string `yaml:"keep_columns"`
}

// Config holds all runtime configuration for an artrecon run. Flag-backed
// fields are set by cobra; the yaml-tagged fields can be overridden from a
// config file.
type Config struct {
	DataDir    string // output directory for all generated artifacts
	RosterPath string // master_patient_list.json location
	DSN        string // optional Postgres archive; empty disables it
	LogFormat  string // "text" or "json"

	InputPath     string // source CSV for the current subcommand
	Interactive   bool   // prompt on close matches instead of deferring
	DecisionsFile string // pre-supplied close-match decisions (YAML)
	Parquet       bool   // also export the de-identified extract as Parquet

	ToleranceCents int64                    `yaml:"tolerance_cents"`
	Ledgers        map[string]LedgerMapping `yaml:"ledgers"`
	PHI            PHIConfig                `yaml:"phi"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	ToleranceCents *int64                   `yaml:"tolerance_cents"`
	Ledgers        map[string]LedgerMapping `yaml:"ledgers"`
	PHI            *PHIConfig               `yaml:"phi"`
}

// Default returns the built-in mappings matching the Prompt and AMD export
// headers. A config file only needs to override what differs.
func Default() Config {
	return Config{
		DataDir:    "data",
		RosterPath: "data/master_patient_list.json",
		LogFormat:  "text",
		Ledgers: map[string]LedgerMapping{
			LedgerRoster: {
				Version: 1,
				Columns: map[string]string{
					"account_number": "Patient Account Number",
					"patient_name":   "Patient",
					"date_of_birth":  "Date of Birth",
				},
			},
			LedgerAMD: {
				Version: 1,
				Columns: map[string]string{
					"patient_name":       "Patient Name (First Last)",
					"date_of_birth":      "Patient Birth Date",
					"service_date":       "Service Date",
					"charges":            "Charges",
					"insurance_payments": "Insurance Payments",
					"patient_payments":   "Patient Payments",
					"current_balance":    "Current Balance",
				},
			},
			LedgerPrompt: {
				Version: 1,
				Columns: map[string]string{
					"account_number":           "Patient Account Number",
					"service_date":             "DOS",
					"primary_insurance":        "Case Primary Insurance",
					"allowed":                  "Primary Allowed",
					"insurance_paid":           "Primary Insurance Paid",
					"total_paid":               "Total Paid",
					"visit_stage":              "Visit Stage",
					"provider":                 "Provider",
					"facility":                 "Visit Facility",
					"insurance_type":           "Primary Insurance Type",
					"patient_paid":             "Patient Paid",
					"secondary_insurance_paid": "Secondary Insurance Paid",
					"written_off":              "Pt. Written Off",
				},
			},
		},
		PHI: PHIConfig{
			RemovePatterns: []string{
				"patient name",
				"patient (first",
				"birth date",
				"dob",
				"office key",
				"practice name",
				"provider profile",
				"provider (first",
			},
			KeepColumns: []string{
				"patient account number",
				"service date",
			},
		},
	}
}

// requiredFields lists the logical fields each ledger mapping must bind.
var requiredFields = map[string][]string{
	LedgerRoster: {"account_number", "patient_name", "date_of_birth"},
	LedgerAMD: {"patient_name", "date_of_birth", "service_date",
		"charges", "insurance_payments", "patient_payments"},
	LedgerPrompt: {"account_number", "service_date", "allowed",
		"insurance_paid", "total_paid"},
}

// LoadFromFile merges a YAML config file over the current values. Ledger
// mappings replace whole entries; unmentioned ledgers keep their defaults.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.ToleranceCents != nil {
		c.ToleranceCents = *yc.ToleranceCents
	}
	for name, m := range yc.Ledgers {
		if _, known := requiredFields[name]; !known {
			return fmt.Errorf("unknown ledger %q in config", name)
		}
		c.Ledgers[name] = m
	}
	if yc.PHI != nil {
		c.PHI = *yc.PHI
	}
	return c.Validate()
}

// Validate checks that mappings bind every required field and that the
// tolerance is sane.
func (c *Config) Validate() error {
	if c.ToleranceCents < 0 {
		return fmt.Errorf("tolerance_cents must be >= 0, got %d", c.ToleranceCents)
	}
	for name, fields := range requiredFields {
		m, ok := c.Ledgers[name]
		if !ok {
			return fmt.Errorf("missing column mapping for ledger %q", name)
		}
		for _, f := range fields {
			if m.Column(f) == "" {
				return fmt.Errorf("ledger %q: column mapping missing field %q", name, f)
			}
		}
	}
	if len(c.PHI.RemovePatterns) == 0 {
		return fmt.Errorf("phi.remove_patterns must not be empty")
	}
	return nil
}

// ValidateInput additionally checks that the per-command input file exists.
func (c *Config) ValidateInput() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.InputPath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}

// Tolerance returns the comparison tolerance in dollars.
func (c *Config) Tolerance() float64 {
	return float64(c.ToleranceCents) / 100
}
