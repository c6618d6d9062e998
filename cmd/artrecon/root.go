package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nateginn/ART-Performance/internal/config"
	"github.com/nateginn/ART-Performance/internal/exitcode"
	"github.com/nateginn/ART-Performance/internal/logging"
)

var (
	cfg        = config.Default()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "artrecon",
	Short: "AMD vs Prompt EHR billing reconciliation pipeline",
	Long: "Maintains the master patient list, resolves billing rows to stable account IDs,\n" +
		"strips PHI, and reconciles the AMD billing ledger against the Prompt EHR ledger.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Output directory for generated artifacts")
	pf.StringVar(&cfg.RosterPath, "roster", cfg.RosterPath, "Master patient list JSON path")
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("ARTRECON_DB_URL"), "Postgres archive connection string (optional, or set ARTRECON_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&configPath, "config", "", "YAML config file overriding column mappings, PHI patterns, and tolerance")
}

// setup builds the logger and merges the optional config file.
func setup() (zerolog.Logger, error) {
	log := logging.Setup(cfg.LogFormat)
	if configPath != "" {
		if err := cfg.LoadFromFile(configPath); err != nil {
			return log, err
		}
	}
	return log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcode.UsageError)
	}
}
