package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/catalog"
	"github.com/kamusis/coursematch/internal/config"
	"github.com/kamusis/coursematch/internal/embeddings"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show coursematch version, build and catalog information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	var cat *catalog.Catalog
	if cfg, err := config.Load(); err == nil {
		cat, _ = catalog.Load(cfg.CatalogPath)
	}
	model := ""
	if embCfg, err := embeddings.LoadConfig(); err == nil {
		if prov, err := embeddings.NewFromConfig(embCfg); err == nil {
			model = prov.ModelID()
		}
	}
	printVersion(os.Stdout, cat, model)
	return nil
}

// printVersion writes build info plus the installed catalog and configured
// model. cat may be nil and model may be empty.
func printVersion(w io.Writer, cat *catalog.Catalog, model string) {
	fmt.Fprintf(w, "Version:    %s\n", version)
	fmt.Fprintf(w, "Commit:     %s\n", emptyAsNA(commit))
	fmt.Fprintf(w, "Build Date: %s\n", emptyAsNA(buildDate))
	fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
	fmt.Fprintf(w, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "Format:     catalog v%d\n", catalog.CurrentVersion)
	if cat == nil {
		fmt.Fprintln(w, "Catalog:    not installed (run 'coursematch index <courses.csv>')")
	} else {
		fmt.Fprintf(w, "Catalog:    %d course(s), dim %d, model %s\n", cat.Size(), cat.Dim(), emptyAsNA(cat.ModelID()))
	}
	fmt.Fprintf(w, "Embeddings: %s\n", emptyAsNA(model))
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
