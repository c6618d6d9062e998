package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nateginn/ART-Performance/internal/artifacts"
	"github.com/nateginn/ART-Performance/internal/exitcode"
	"github.com/nateginn/ART-Performance/internal/report"
	"github.com/nateginn/ART-Performance/internal/tabular"
)

var masterPromptOnlyPath string

var masterReportCmd = &cobra.Command{
	Use:   "master-report",
	Short: "Combine matched and prompt-only partitions into the Billing Master",
	RunE:  runMasterReport,
}

func init() {
	f := masterReportCmd.Flags()
	f.StringVar(&cfg.InputPath, "matched", "", "comparison_matched CSV from the reconcile step (required)")
	f.StringVar(&masterPromptOnlyPath, "prompt-only", "", "prompt_only CSV from the reconcile step (required)")
	_ = masterReportCmd.MarkFlagRequired("matched")
	_ = masterReportCmd.MarkFlagRequired("prompt-only")
	rootCmd.AddCommand(masterReportCmd)
}

func runMasterReport(cmd *cobra.Command, args []string) error {
	log, err := setup()
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateInput(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	matched, err := tabular.ReadFile(cfg.InputPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read matched partition")
		os.Exit(exitcode.IOError)
	}
	promptOnly, err := tabular.ReadFile(masterPromptOnlyPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read prompt-only partition")
		os.Exit(exitcode.IOError)
	}

	master := report.BillingMaster(matched, promptOnly)
	w := artifacts.NewWriter(cfg.DataDir, time.Now())
	path, err := w.WriteTable("Billing_Master", master)
	if err != nil {
		log.Error().Err(err).Msg("failed to write billing master")
		os.Exit(exitcode.IOError)
	}

	fmt.Printf("Billing Master complete: %d matched + %d prompt-only = %d records, output %s\n",
		matched.Len(), promptOnly.Len(), master.Len(), path)
	return nil
}
