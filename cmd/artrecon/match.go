package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nateginn/ART-Performance/internal/artifacts"
	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/exitcode"
	"github.com/nateginn/ART-Performance/internal/resolve"
	"github.com/nateginn/ART-Performance/internal/roster"
	"github.com/nateginn/ART-Performance/internal/tabular"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Resolve AMD billing rows to master-list account IDs",
	Long: "Annotates every row of an AMD extract with a Prompt_ID: a resolved account ID,\n" +
		"UNMATCHED, or CLOSE_MATCH. Close matches defer to a pending queue unless decided\n" +
		"interactively or through a decisions file.",
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&cfg.InputPath, "file", "", "AMD billing CSV (required)")
	f.BoolVar(&cfg.Interactive, "interactive", false, "Review close matches on the terminal")
	f.StringVar(&cfg.DecisionsFile, "decisions", "", "YAML decision list for pending close matches")
	_ = matchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	log, err := setup()
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateInput(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	ml, err := roster.Store{Path: cfg.RosterPath}.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load master patient list")
		os.Exit(exitcode.IOError)
	}
	if len(ml.Patients) == 0 {
		log.Error().Str("path", cfg.RosterPath).Msg("master patient list is empty, run roster first")
		os.Exit(exitcode.ValidationError)
	}

	src, err := tabular.ReadFile(cfg.InputPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to read AMD extract")
		os.Exit(exitcode.IOError)
	}

	nameCol, dobCol, err := resolve.FindColumns(src, cfg.Ledgers[config.LedgerAMD])
	if err != nil {
		log.Error().Err(err).Msg("ledger structure validation failed")
		os.Exit(exitcode.ValidationError)
	}
	log.Info().Str("name_column", nameCol).Str("dob_column", dobCol).Msg("identity columns located")

	idx := resolve.NewIndex(ml)
	res := resolve.Match(src, idx, nameCol, dobCol)
	log.Info().
		Int("total", res.Summary.TotalRecords).
		Int("matched", res.Summary.Matched).
		Int("close_matches", res.Summary.CloseMatches).
		Int("unmatched", res.Summary.Unmatched).
		Msg("matching complete")

	decisions := map[string]string{}
	if cfg.DecisionsFile != "" {
		decisions, err = resolve.LoadDecisions(cfg.DecisionsFile)
		if err != nil {
			log.Error().Err(err).Msg("failed to load decisions file")
			os.Exit(exitcode.UsageError)
		}
	}
	if applied := res.Apply(decisions); applied > 0 {
		log.Info().Int("groups", applied).Msg("batch decisions applied")
	}

	if cfg.Interactive && len(res.Pending) > 0 {
		reviewer := &resolve.ConsoleReviewer{In: os.Stdin, Out: os.Stdout}
		reviewed, err := reviewer.Review(res.Pending)
		if err != nil {
			log.Warn().Err(err).Msg("review ended early, remaining groups deferred")
		}
		res.Apply(reviewed)
	}

	now := time.Now()
	w := artifacts.NewWriter(cfg.DataDir, now)
	matchedPath, err := w.WriteTable("amd_matched", res.Table)
	if err != nil {
		log.Error().Err(err).Msg("failed to write matched extract")
		os.Exit(exitcode.IOError)
	}
	if _, err := w.WriteReport("matching_report", resolve.Report(res, cfg.InputPath, now)); err != nil {
		log.Error().Err(err).Msg("failed to write matching report")
		os.Exit(exitcode.IOError)
	}

	if len(res.Pending) > 0 {
		queuePath := w.Path("pending_matches", "yaml")
		if err := resolve.SaveQueue(queuePath, res.Pending); err != nil {
			log.Error().Err(err).Msg("failed to persist pending queue")
			os.Exit(exitcode.IOError)
		}
		fmt.Printf("Matching complete with %d pending close match group(s): %s\n", len(res.Pending), queuePath)
		fmt.Printf("Matched extract: %s\n", matchedPath)
		os.Exit(exitcode.PartialSuccess)
	}

	fmt.Printf("Matching complete: %d/%d matched (%.1f%%), output %s\n",
		res.Summary.Matched, res.Summary.TotalRecords, res.Summary.MatchRate(), matchedPath)
	return nil
}
