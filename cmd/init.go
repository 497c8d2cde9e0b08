package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.coursematch with a default config and .env template",
	Long: `Initialize coursematch at ~/.coursematch/.

Writes coursematch.yaml with defaults and a .env template for the embeddings
provider. Existing files are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.coursematch directory ──────────────────────────────────
	homeDir, err := config.HomeDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	// ── 2. Create ~/.coursematch/ if it doesn't exist ────────────────────────
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", homeDir, err)
	}
	printOK("", fmt.Sprintf("coursematch directory ready: %s", homeDir))

	// ── 3. Write coursematch.yaml if missing ─────────────────────────────────
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	// ── 4. Write .env template if missing ────────────────────────────────────
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(envPath)
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	if os.IsNotExist(statErr) {
		printOK("", fmt.Sprintf(".env template written: %s", envPath))
	} else {
		printSkip("", fmt.Sprintf(".env already exists: %s", envPath))
	}

	fmt.Println("\n✓  coursematch init complete.")
	fmt.Println("   Set COURSEMATCH_EMBEDDINGS_PROVIDER in the .env file, then run 'coursematch index <courses.csv>'.")
	return nil
}
