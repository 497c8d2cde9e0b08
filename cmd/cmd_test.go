package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kamusis/coursematch/internal/catalog"
	"github.com/kamusis/coursematch/internal/config"
	"github.com/kamusis/coursematch/internal/recommend"
)

const testCSV = `Course Name,University,Difficulty Level,Course Rating,Course URL,Course Description,Skills
Python for Everybody,University of Michigan,Beginner,4.8,https://example.com/1,Learn to program and analyze data with Python.,python  programming  data analysis
Organic Chemistry,Rice University,Advanced,4.6,https://example.com/2,Reactions and mechanisms of carbon compounds.,chemistry  reactions
Data Science with Python,IBM,Intermediate,4.5,https://example.com/3,Pandas numpy and visualization in Python.,python  pandas  data science
Cloud Architecture,Google Cloud,Intermediate,4.7,https://example.com/4,Design scalable systems on the cloud.,cloud  architecture
`

// setupHome points HOME at a temp dir and selects the offline hash provider.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("COURSEMATCH_EMBEDDINGS_PROVIDER", "hash")
	t.Setenv("COURSEMATCH_EMBEDDINGS_DIM", "64")
	return home
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestInitIndexRecommend_EndToEnd(t *testing.T) {
	home := setupHome(t)

	if err := execute(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".coursematch", "coursematch.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".coursematch", ".env")); err != nil {
		t.Fatalf(".env not written: %v", err)
	}

	csvPath := filepath.Join(t.TempDir(), "courses.csv")
	if err := os.WriteFile(csvPath, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "index", csvPath); err != nil {
		t.Fatalf("index: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	if cat.Size() != 4 || cat.ModelID() != "hash:64" || !cat.Manifest().Normalize {
		t.Fatalf("unexpected catalog: size=%d manifest=%+v", cat.Size(), cat.Manifest())
	}

	svc, err := openService(context.Background(), cfg, 0)
	if err != nil {
		t.Fatalf("openService: %v", err)
	}
	results, err := svc.Recommend(context.Background(), "python data science", recommend.DefaultTopN)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected all 4 courses, got %d", len(results))
	}
	if !strings.Contains(results[0].Course.Name, "Python") {
		t.Fatalf("expected a python course first, got %+v", results[0])
	}

	// Second index run reuses every vector.
	if err := execute(t, "index", csvPath); err != nil {
		t.Fatalf("re-index: %v", err)
	}
	if _, err := os.Stat(cfg.CatalogPath + ".bak"); err == nil {
		t.Fatalf("backup dir left behind")
	}
}

func TestRecommend_BlankQueryFailsWithoutConfig(t *testing.T) {
	setupHome(t)
	err := execute(t, "recommend", "   ")
	if !errors.Is(err, recommend.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestRecommend_MissingCatalog(t *testing.T) {
	setupHome(t)
	if err := execute(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	err := execute(t, "recommend", "python")
	if !errors.Is(err, catalog.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestPrintRecommendations(t *testing.T) {
	results := []recommend.Result{
		{Rank: 1, Index: 2, Score: 0.91234, Course: catalog.Course{Name: "Data Science with Python", University: "IBM", Difficulty: catalog.Intermediate, Skills: "python, pandas"}},
		{Rank: 2, Index: 0, Score: 0.5, Course: catalog.Course{Name: "Python for Everybody"}},
	}
	var buf bytes.Buffer
	printRecommendations(&buf, "python", results)
	out := buf.String()
	for _, want := range []string{"Results (2 found)", "1.", "[0.912]", "Data Science with Python", "(IBM, Intermediate)", "skills: python, pandas", "Python for Everybody"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRecommendJSON(t *testing.T) {
	results := []recommend.Result{{Rank: 1, Index: 3, Score: 0.7, Course: catalog.Course{Name: "Cloud Architecture"}}}
	var buf bytes.Buffer
	if err := printRecommendJSON(&buf, "cloud", 6, results); err != nil {
		t.Fatalf("printRecommendJSON: %v", err)
	}
	var got struct {
		Query   string             `json:"query"`
		K       int                `json:"k"`
		Results []recommend.Result `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Query != "cloud" || got.K != 6 || len(got.Results) != 1 || got.Results[0].Index != 3 {
		t.Fatalf("unexpected JSON: %+v", got)
	}
}

func TestPrintCatalogSummary(t *testing.T) {
	courses := []catalog.Course{
		{Name: "A", Difficulty: catalog.Beginner},
		{Name: "B", Difficulty: catalog.Beginner},
		{Name: "C"},
		{Name: "D", Difficulty: catalog.Difficulty("Not Calibrated")},
	}
	cat, err := catalog.New(catalog.Manifest{ModelID: "hash:2"}, courses, [][]float32{{1, 0}, {0, 1}, {1, 1}, {0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	printCatalogSummary(&buf, "/tmp/catalog", cat)
	out := buf.String()
	for _, want := range []string{"hash:2", "Courses:   4", "Beginner", "(none)", "Not Calibrated (unrecognized)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestResolveLogConfig(t *testing.T) {
	setupHome(t)
	t.Cleanup(func() { flagLogLevel, flagLogFormat = "", "" })

	serve := &cobra.Command{Use: "serve"}
	lc := resolveLogConfig(serve)
	if lc.Level != "info" || lc.Format != "json" {
		t.Fatalf("serve defaults: %+v", lc)
	}

	other := &cobra.Command{Use: "recommend"}
	lc = resolveLogConfig(other)
	if lc.Level != "warn" || lc.Format != "console" {
		t.Fatalf("cli defaults: %+v", lc)
	}

	flagLogLevel = "debug"
	lc = resolveLogConfig(other)
	if lc.Level != "debug" {
		t.Fatalf("flag override ignored: %+v", lc)
	}
}

func TestHelpers(t *testing.T) {
	if got := progressStep(5); got != 1 {
		t.Fatalf("progressStep(5)=%d", got)
	}
	if got := progressStep(250); got != 25 {
		t.Fatalf("progressStep(250)=%d", got)
	}
	if got := nonEmpty("a", " ", "", "b"); len(got) != 2 {
		t.Fatalf("nonEmpty=%v", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate=%q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate=%q", got)
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf, nil, "")
	out := buf.String()
	for _, want := range []string{"Version:", "catalog v", "not installed", "Embeddings: n/a"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	cat, err := catalog.New(catalog.Manifest{ModelID: "hash:2", Dim: 2}, []catalog.Course{{Name: "A"}}, [][]float32{{1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	printVersion(&buf, cat, "hash:2")
	out = buf.String()
	for _, want := range []string{"1 course(s), dim 2, model hash:2", "Embeddings: hash:2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
