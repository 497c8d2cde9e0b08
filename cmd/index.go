package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/catalog"
	"github.com/kamusis/coursematch/internal/config"
	"github.com/kamusis/coursematch/internal/logging"
)

var (
	flagIndexForce       bool
	flagIndexConcurrency int
	flagIndexNormalize   bool
	flagIndexTimeout     time.Duration
)

var indexCmd = &cobra.Command{
	Use:   "index <courses.csv>",
	Short: "Embed a course CSV and install it as the catalog",
	Long: `Read a course table, embed every course with the configured provider and
atomically replace the catalog at catalog_path.

Courses whose text did not change since the previous build are not embedded
again unless --force is given or the model changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagIndexForce, "force", false, "Re-embed every course even if unchanged")
	indexCmd.Flags().IntVar(&flagIndexConcurrency, "concurrency", 0, "Parallel embedding requests (default from config)")
	indexCmd.Flags().BoolVar(&flagIndexNormalize, "normalize", true, "Store L2-normalized vectors")
	indexCmd.Flags().DurationVar(&flagIndexTimeout, "timeout", 30*time.Minute, "Overall time limit for the build")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	csvPath := args[0]
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", csvPath, err)
	}
	courses, err := catalog.ReadCSV(f)
	_ = f.Close()
	if err != nil {
		return err
	}
	printInfo("", fmt.Sprintf("%d course(s) read from %s", len(courses), csvPath))

	ctx, cancel := context.WithTimeout(cmd.Context(), flagIndexTimeout)
	defer cancel()

	prov, err := openProvider(ctx)
	if err != nil {
		return err
	}

	unlock, err := acquireIndexLock(30 * time.Second)
	defer unlock()
	if err != nil {
		return err
	}

	// A previous catalog only seeds reuse; any load problem means a full build.
	prev, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logging.Debug().Err(err).Msg("no reusable catalog")
		prev = nil
	}

	homeDir, err := config.HomeDir()
	if err != nil {
		return err
	}
	tmpBase := filepath.Join(homeDir, "tmp")
	if err := os.MkdirAll(tmpBase, 0o755); err != nil {
		return fmt.Errorf("cannot create temp dir %s: %w", tmpBase, err)
	}
	tmpDir, err := os.MkdirTemp(tmpBase, "catalog-*")
	if err != nil {
		return fmt.Errorf("cannot create temp catalog dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	concurrency := flagIndexConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Index.Concurrency
	}

	source, _ := filepath.Abs(csvPath)
	step := progressStep(len(courses))
	printInfo("", fmt.Sprintf("building catalog using %s", prov.ModelID()))
	start := time.Now()
	cat, stats, err := catalog.Build(ctx, prov, courses, catalog.BuildOptions{
		OutDir:      tmpDir,
		Source:      source,
		Previous:    prev,
		Force:       flagIndexForce,
		Normalize:   flagIndexNormalize,
		Concurrency: concurrency,
		Progress: func(done, total int) {
			if done%step == 0 || done == total {
				fmt.Printf("  ~  %d/%d\n", done, total)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("catalog build failed: %w", err)
	}

	if err := catalog.AtomicSwap(tmpDir, cfg.CatalogPath); err != nil {
		return fmt.Errorf("cannot install catalog: %w", err)
	}
	logging.Info().
		Int("courses", cat.Size()).
		Int("embedded", stats.Embedded).
		Int("reused", stats.Reused).
		Dur("duration", time.Since(start)).
		Msg("catalog built")

	printOK("", fmt.Sprintf("%d embedded, %d reused (dim %d)", stats.Embedded, stats.Reused, cat.Dim()))
	printOK("", fmt.Sprintf("catalog written: %s", cfg.CatalogPath))
	return nil
}

// progressStep reports roughly every tenth of the run.
func progressStep(total int) int {
	if total < 10 {
		return 1
	}
	return total / 10
}
