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
	"github.com/nateginn/ART-Performance/internal/deid"
	"github.com/nateginn/ART-Performance/internal/exitcode"
	"github.com/nateginn/ART-Performance/internal/recon"
	"github.com/nateginn/ART-Performance/internal/tabular"
)

var promptPath string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the de-identified AMD extract against the Prompt ledger",
	RunE:  runReconcile,
}

func init() {
	f := reconcileCmd.Flags()
	f.StringVar(&promptPath, "prompt", "", "Prompt EHR revenue CSV (required)")
	f.StringVar(&cfg.InputPath, "amd", "", "De-identified AMD CSV from the deidentify step (required)")
	_ = reconcileCmd.MarkFlagRequired("prompt")
	_ = reconcileCmd.MarkFlagRequired("amd")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	log, err := setup()
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateInput(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	started := time.Now()
	prompt, err := tabular.ReadFile(promptPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read Prompt ledger")
		os.Exit(exitcode.IOError)
	}
	amd, err := tabular.ReadFile(cfg.InputPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read AMD extract")
		os.Exit(exitcode.IOError)
	}

	res, err := recon.Reconcile(prompt, amd, &cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("reconciliation failed")
		os.Exit(exitcode.ReconcileError)
	}
	log.Info().
		Int("matched", res.Summary.Matched).
		Int("prompt_only", res.Summary.PromptOnly).
		Int("amd_only", res.Summary.AMDOnly).
		Int("discrepancies", res.Summary.Discrepancies).
		Msg("reconciliation complete")

	w := artifacts.NewWriter(cfg.DataDir, started)
	pm := cfg.Ledgers[config.LedgerPrompt]
	am := cfg.Ledgers[config.LedgerAMD]

	matchedPath, err := w.WriteTable("comparison_matched", recon.MatchedTable(res.Comparisons, cfg.Tolerance()))
	if err != nil {
		log.Error().Err(err).Msg("failed to write matched partition")
		os.Exit(exitcode.IOError)
	}
	if _, err := w.WriteTable("prompt_only", recon.PromptOnlyTable(res.PromptOnly, pm)); err != nil {
		log.Error().Err(err).Msg("failed to write prompt-only partition")
		os.Exit(exitcode.IOError)
	}
	if _, err := w.WriteTable("amd_only", recon.AMDOnlyTable(res.AMDOnly, deid.ColumnAccountNumber, am)); err != nil {
		log.Error().Err(err).Msg("failed to write amd-only partition")
		os.Exit(exitcode.IOError)
	}
	if _, err := w.WriteReport("comparison_report", recon.Report(res, started)); err != nil {
		log.Error().Err(err).Msg("failed to write comparison report")
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

		var disc []archive.Discrepancy
		for _, c := range res.Comparisons {
			for _, d := range c.Discrepancies {
				disc = append(disc, archive.Discrepancy{MatchKey: c.Key, Description: d})
			}
		}
		rec := archive.RunRecord{
			RunID:    w.RunID,
			Started:  started,
			Finished: time.Now(),
			Summary:  res.Summary,
		}
		if err := ar.RecordRun(ctx, rec, disc); err != nil {
			log.Warn().Err(err).Msg("run archive failed (non-fatal)")
		} else {
			log.Info().Str("run_id", w.RunID.String()).Msg("run archived")
		}
	}

	fmt.Printf("Reconciliation complete: %d matched, %d prompt-only, %d amd-only, %d discrepancies (%.1f%% match quality)\n",
		res.Summary.Matched, res.Summary.PromptOnly, res.Summary.AMDOnly,
		res.Summary.Discrepancies, res.Summary.MatchQuality())
	fmt.Printf("Matched partition: %s\n", matchedPath)
	return nil
}
