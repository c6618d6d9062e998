package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nateginn/ART-Performance/internal/artifacts"
	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/exitcode"
	"github.com/nateginn/ART-Performance/internal/metrics"
	"github.com/nateginn/ART-Performance/internal/tabular"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute revenue KPIs from a Prompt ledger extract",
	RunE:  runMetrics,
}

func init() {
	metricsCmd.Flags().StringVar(&cfg.InputPath, "file", "", "Prompt EHR revenue CSV (required)")
	_ = metricsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
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
		log.Error().Err(err).Msg("failed to read Prompt ledger")
		os.Exit(exitcode.IOError)
	}

	all, err := metrics.New(src, cfg.Ledgers[config.LedgerPrompt]).Compute()
	if err != nil {
		log.Error().Err(err).Msg("ledger validation failed")
		os.Exit(exitcode.ValidationError)
	}
	log.Info().
		Int("visits", all.Executive.TotalVisits).
		Float64("collection_rate", all.Executive.CollectionRate).
		Int("red_flags", len(all.Flags)).
		Msg("metrics computed")

	now := time.Now()
	w := artifacts.NewWriter(cfg.DataDir, now)
	path, err := w.WriteReport("revenue_metrics_report", metrics.Report(all, now))
	if err != nil {
		log.Error().Err(err).Msg("failed to write metrics report")
		os.Exit(exitcode.IOError)
	}

	fmt.Printf("Metrics complete: %d visits, %.2f%% collection rate, %d red flag(s), report %s\n",
		all.Executive.TotalVisits, all.Executive.CollectionRate, len(all.Flags), path)
	return nil
}
