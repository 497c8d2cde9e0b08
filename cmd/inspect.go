package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/catalog"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [index]",
	Short: "Show the catalog summary or one course",
	Long: `Display a formatted summary of the installed catalog: the model it was
embedded with, its dimension, its size and its difficulty breakdown.

With an index argument, show that course in full.

Example:
  coursematch inspect
  coursematch inspect 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		printCatalogSummary(os.Stdout, cfg.CatalogPath, cat)
		return nil
	}

	i, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be an integer, got %q", args[0])
	}
	c, ok := cat.Get(i)
	if !ok {
		return fmt.Errorf("index %d out of range (catalog has %d course(s))", i, cat.Size())
	}
	printCourse(os.Stdout, i, c)
	return nil
}

func printCatalogSummary(w io.Writer, path string, cat *catalog.Catalog) {
	m := cat.Manifest()
	fmt.Fprintf(w, "📚 Catalog: %s\n", path)
	fmt.Fprintf(w, "Model:     %s\n", emptyAsNA(m.ModelID))
	fmt.Fprintf(w, "Dim:       %d\n", cat.Dim())
	fmt.Fprintf(w, "Normalize: %t\n", m.Normalize)
	fmt.Fprintf(w, "Courses:   %d\n", cat.Size())
	fmt.Fprintf(w, "Created:   %s\n", emptyAsNA(m.CreatedAt))
	if m.Source != "" {
		fmt.Fprintf(w, "Source:    %s\n", m.Source)
	}

	counts := map[catalog.Difficulty]int{}
	for i := 0; i < cat.Size(); i++ {
		c, _ := cat.Get(i)
		counts[c.Difficulty]++
	}
	if len(counts) == 0 {
		return
	}
	levels := make([]catalog.Difficulty, 0, len(counts))
	for d := range counts {
		levels = append(levels, d)
	}
	sort.Slice(levels, func(i, j int) bool {
		if counts[levels[i]] != counts[levels[j]] {
			return counts[levels[i]] > counts[levels[j]]
		}
		return levels[i] < levels[j]
	})
	fmt.Fprintln(w, "\nDifficulty:")
	for _, d := range levels {
		label := string(d)
		switch {
		case label == "":
			label = "(none)"
		case !d.Known():
			label += " (unrecognized)"
		}
		fmt.Fprintf(w, "  %-28s %d\n", label, counts[d])
	}
}

func printCourse(w io.Writer, i int, c catalog.Course) {
	fmt.Fprintf(w, "📘 Course #%d: %s\n", i, c.Name)
	if c.University != "" {
		fmt.Fprintf(w, "University: %s\n", c.University)
	}
	if c.Difficulty != "" {
		fmt.Fprintf(w, "Difficulty: %s\n", c.Difficulty)
	}
	if skills := c.SkillList(); len(skills) > 0 {
		fmt.Fprintln(w, "\nSkills:")
		for _, s := range skills {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if d := strings.TrimSpace(c.Description); d != "" {
		fmt.Fprintf(w, "\nDescription:\n  %s\n", strings.ReplaceAll(d, "\n", "\n  "))
	}
}
