package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/config"
	"github.com/kamusis/coursematch/internal/logging"
)

var (
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:          "coursematch",
	Short:        "coursematch — semantic course recommendations from a precomputed catalog",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `coursematch embeds a free-text query, compares it with the precomputed
embeddings of a course catalog and prints the closest courses.

Build a catalog once with 'coursematch index courses.csv', then ask with
'coursematch recommend "I want to learn data science with python"'.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logging.Init(resolveLogConfig(cmd))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: console or json (default from config)")
}

// resolveLogConfig picks log settings from flags, then coursematch.yaml, then
// per-command defaults. serve logs json at info; everything else stays quiet.
func resolveLogConfig(cmd *cobra.Command) logging.Config {
	lc := logging.DefaultConfig()
	if cmd.Name() == "serve" {
		lc.Level = "info"
		lc.Format = "json"
	}
	if cfg, err := config.Load(); err == nil {
		if cfg.Log.Level != "" {
			lc.Level = cfg.Log.Level
		}
		if cfg.Log.Format != "" && cmd.Name() != "serve" {
			lc.Format = cfg.Log.Format
		}
	}
	if flagLogLevel != "" {
		lc.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		lc.Format = flagLogFormat
	}
	return lc
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
