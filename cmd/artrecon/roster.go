package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nateginn/ART-Performance/internal/archive"
	"github.com/nateginn/ART-Performance/internal/artifacts"
	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/exitcode"
	"github.com/nateginn/ART-Performance/internal/roster"
	"github.com/nateginn/ART-Performance/internal/tabular"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Update the master patient list from a roster extract",
	RunE:  runRoster,
}

func init() {
	f := rosterCmd.Flags()
	f.StringVar(&cfg.InputPath, "file", "", "Roster CSV with Patient Account Number, Patient, Date of Birth (required)")
	_ = rosterCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(rosterCmd)
}

func runRoster(cmd *cobra.Command, args []string) error {
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
		log.Error().Err(err).Msg("failed to read roster extract")
		os.Exit(exitcode.IOError)
	}

	now := time.Now()
	store := roster.Store{Path: cfg.RosterPath}
	summary, err := roster.Update(store, src, cfg.Ledgers[config.LedgerRoster], log, now)
	if err != nil {
		if pe, ok := err.(*roster.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("roster update failed")
			switch pe.Phase {
			case "load", "commit":
				os.Exit(exitcode.IOError)
			default:
				os.Exit(exitcode.ValidationError)
			}
		}
		log.Error().Err(err).Msg("roster update failed")
		os.Exit(exitcode.ValidationError)
	}
	summary.SourcePath = cfg.InputPath

	w := artifacts.NewWriter(cfg.DataDir, now)
	reportPath, err := w.WriteReport("master_list_update_report", roster.UpdateReport(summary, cfg.RosterPath, now))
	if err != nil {
		log.Error().Err(err).Msg("failed to write roster report")
		os.Exit(exitcode.IOError)
	}

	if cfg.DSN != "" {
		ctx := context.Background()
		ar, err := archive.Open(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("archive connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer ar.Close()
		if err := ar.SnapshotRoster(ctx, now, *summary); err != nil {
			log.Warn().Err(err).Msg("roster snapshot failed (non-fatal)")
		}
	}

	fmt.Printf("Roster update complete: %d new, %d total patients (report: %s)\n",
		len(summary.NewPatients), summary.TotalPatients, reportPath)
	return nil
}
