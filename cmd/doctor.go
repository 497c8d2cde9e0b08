package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/catalog"
	"github.com/kamusis/coursematch/internal/config"
	"github.com/kamusis/coursematch/internal/embeddings"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that coursematch's config, embeddings provider and catalog are usable.
Run this command when something seems wrong, or before filing a bug report.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("coursematch doctor")
	fmt.Println()

	// ── Check 1: coursematch.yaml ──────────────────────────────────────────
	fmt.Println("[ coursematch.yaml ]")
	cfgPath, _ := config.ConfigPath()
	cfg, loadErr := config.Load()
	if loadErr != nil {
		failD("cannot load %s: %v — run 'coursematch init' first", cfgPath, loadErr)
	} else {
		printOK("", fmt.Sprintf("valid YAML — top_n=%d, catalog_path=%s", cfg.TopN, cfg.CatalogPath))
	}
	fmt.Println()

	// ── Check 2: .env ──────────────────────────────────────────────────────
	fmt.Println("[ .env ]")
	envPath, _ := config.DotEnvPath()
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		printMiss("", fmt.Sprintf("%s not found (environment variables only)", envPath))
	} else if _, err := config.LoadDotEnv(); err != nil {
		failD("cannot parse %s: %v", envPath, err)
	} else {
		printOK("", envPath)
	}
	fmt.Println()

	// ── Check 3: embeddings provider ───────────────────────────────────────
	fmt.Println("[ Embeddings ]")
	var prov embeddings.Provider
	embCfg, err := embeddings.LoadConfig()
	if err != nil {
		failD("cannot resolve embeddings config: %v", err)
	} else if prov, err = embeddings.NewFromConfig(embCfg); err != nil {
		failD("%v", err)
	} else {
		printOK("", fmt.Sprintf("provider %s", prov.ModelID()))
	}
	fmt.Println()

	// ── Check 4: catalog ───────────────────────────────────────────────────
	fmt.Println("[ Catalog ]")
	var cat *catalog.Catalog
	if loadErr == nil {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			failD("%v — run 'coursematch index <courses.csv>'", err)
		} else {
			printOK("", fmt.Sprintf("%d course(s), dim %d, model %s", cat.Size(), cat.Dim(), emptyAsNA(cat.ModelID())))
		}
	} else {
		printWarn("", "skipped (coursematch.yaml not loaded)")
	}
	fmt.Println()

	// ── Check 5: catalog and provider agree ────────────────────────────────
	fmt.Println("[ Model match ]")
	switch {
	case cat == nil || prov == nil:
		printWarn("", "skipped (catalog or provider unavailable)")
	case cat.ModelID() != "" && cat.ModelID() != prov.ModelID():
		failD("catalog built with %s but provider is %s — rebuild with 'coursematch index'", cat.ModelID(), prov.ModelID())
	default:
		printOK("", "catalog and provider use the same model")
	}
	fmt.Println()

	// ── Check 6: probe embed ───────────────────────────────────────────────
	fmt.Println("[ Probe ]")
	if prov == nil {
		printWarn("", "skipped (provider unavailable)")
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		dim, err := embeddings.Probe(ctx, prov)
		cancel()
		switch {
		case err != nil:
			failD("%v", err)
		case cat != nil && cat.Size() > 0 && dim != cat.Dim():
			failD("provider produces dim %d but catalog has %d", dim, cat.Dim())
		default:
			printOK("", fmt.Sprintf("embedded probe text (dim %d)", dim))
		}
	}
	fmt.Println()

	// ── Summary ────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. coursematch is ready to use.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}
