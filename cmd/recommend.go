package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/recommend"
)

var (
	flagRecK        int
	flagRecMinScore float64
	flagRecJSON     bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <query...>",
	Short: "Recommend courses for a free-text query",
	Long: `Embed the query and print the closest courses from the catalog.

Example:
  coursematch recommend "I want to learn data science with python"
  coursematch recommend -k 3 --json cloud architecture`,
	Args: cobra.ArbitraryArgs,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVarP(&flagRecK, "k", "k", 0, "Number of results to show (default from config, 6)")
	recommendCmd.Flags().Float64Var(&flagRecMinScore, "min-score", 0, "Minimum cosine similarity to include (default from config)")
	recommendCmd.Flags().BoolVar(&flagRecJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		printWarn("query", "please enter what you want to learn")
		return recommend.ErrEmptyQuery
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	k := cfg.TopN
	if cmd.Flags().Changed("k") {
		k = flagRecK
	}
	minScore := cfg.MinScore
	if cmd.Flags().Changed("min-score") {
		minScore = flagRecMinScore
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	svc, err := openService(ctx, cfg, minScore)
	if err != nil {
		return err
	}
	results, err := svc.Recommend(ctx, query, k)
	if err != nil {
		return err
	}

	if flagRecJSON {
		return printRecommendJSON(os.Stdout, query, k, results)
	}
	printRecommendations(os.Stdout, query, results)
	return nil
}

func printRecommendJSON(w io.Writer, query string, k int, results []recommend.Result) error {
	out := struct {
		Query   string             `json:"query"`
		K       int                `json:"k"`
		Results []recommend.Result `json:"results"`
	}{query, k, results}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printRecommendations(w io.Writer, query string, results []recommend.Result) {
	fmt.Fprintf(w, "\ncoursematch recommend %q\n\n", query)
	fmt.Fprintf(w, "Results (%d found):\n", len(results))
	if len(results) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		c := r.Course
		meta := strings.TrimSpace(strings.Join(nonEmpty(c.University, string(c.Difficulty)), ", "))
		if meta != "" {
			meta = "(" + meta + ")"
		}
		fmt.Fprintf(tw, "  %d.\t[%.3f]\t%s\t%s\n", r.Rank, r.Score, c.Name, meta)
		if skills := c.SkillList(); len(skills) > 0 {
			fmt.Fprintf(tw, "  \t\tskills: %s\t\n", truncate(strings.Join(skills, ", "), 80))
		}
	}
	_ = tw.Flush()
}

func nonEmpty(ss ...string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
