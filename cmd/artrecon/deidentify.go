package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nateginn/ART-Performance/internal/artifacts"
	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/deid"
	"github.com/nateginn/ART-Performance/internal/exitcode"
	"github.com/nateginn/ART-Performance/internal/tabular"
)

var deidentifyCmd = &cobra.Command{
	Use:   "deidentify",
	Short: "Strip PHI from a matched AMD extract",
	RunE:  runDeidentify,
}

func init() {
	f := deidentifyCmd.Flags()
	f.StringVar(&cfg.InputPath, "file", "", "Matched AMD CSV from the match step (required)")
	f.BoolVar(&cfg.Parquet, "parquet", false, "Also export the de-identified extract as Parquet")
	_ = deidentifyCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(deidentifyCmd)
}

func runDeidentify(cmd *cobra.Command, args []string) error {
	log, err := setup()
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateInput(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	src, err := tabular.ReadFile(cfg.InputPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read matched extract")
		os.Exit(exitcode.IOError)
	}

	res, err := deid.SplitAndStrip(src, cfg.PHI)
	if err != nil {
		log.Error().Err(err).Msg("de-identification failed")
		os.Exit(exitcode.ValidationError)
	}
	if err := deid.Validate(res.Deidentified); err != nil {
		log.Error().Err(err).Msg("PHI validation failed, refusing to write output")
		os.Exit(exitcode.ValidationError)
	}
	log.Info().
		Int("total", res.Summary.TotalRecords).
		Int("unmatched", res.Summary.UnmatchedRecords).
		Int("columns_removed", len(res.Summary.ColumnsRemoved)).
		Msg("de-identification complete")

	now := time.Now()
	w := artifacts.NewWriter(cfg.DataDir, now)
	deidPath, err := w.WriteTable("amd_deidentified", res.Deidentified)
	if err != nil {
		log.Error().Err(err).Msg("failed to write de-identified extract")
		os.Exit(exitcode.IOError)
	}
	if res.Unmatched.Len() > 0 {
		if _, err := w.WriteTable("amd_unmatched", res.Unmatched); err != nil {
			log.Error().Err(err).Msg("failed to write unmatched follow-up file")
			os.Exit(exitcode.IOError)
		}
	} else {
		log.Info().Msg("all patients matched, no follow-up file written")
	}
	if _, err := w.WriteReport("deidentification_report", deid.Report(res, cfg.InputPath, now)); err != nil {
		log.Error().Err(err).Msg("failed to write de-identification report")
		os.Exit(exitcode.IOError)
	}

	if cfg.Parquet {
		am := cfg.Ledgers[config.LedgerAMD]
		cols := tabular.VisitColumns{
			AccountNumber:     deid.ColumnAccountNumber,
			ServiceDate:       am.Column("service_date"),
			Charges:           am.Column("charges"),
			InsurancePayments: am.Column("insurance_payments"),
			PatientPayments:   am.Column("patient_payments"),
			CurrentBalance:    am.Column("current_balance"),
		}
		pqPath := w.Path("amd_deidentified", "parquet")
		n, err := tabular.WriteParquet(pqPath, res.Deidentified, cols)
		if err != nil {
			log.Error().Err(err).Msg("failed to write parquet export")
			os.Exit(exitcode.IOError)
		}
		log.Info().Int("rows", n).Str("path", pqPath).Msg("parquet export written")
	}

	fmt.Printf("De-identification complete: %d records, %d columns removed, output %s\n",
		res.Summary.TotalRecords, len(res.Summary.ColumnsRemoved), deidPath)
	return nil
}
