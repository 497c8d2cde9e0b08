package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_AppliesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := filepath.Join(t.TempDir(), "coursematch.yaml")
	if err := os.WriteFile(p, []byte("min_score: 0.25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.TopN != DefaultTopN {
		t.Fatalf("top_n default: got %d want %d", cfg.TopN, DefaultTopN)
	}
	if cfg.MinScore != 0.25 {
		t.Fatalf("min_score: got %v", cfg.MinScore)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Fatalf("server addr default: got %q", cfg.Server.Addr)
	}
	if cfg.Index.Concurrency != DefaultConcurrency {
		t.Fatalf("concurrency default: got %d", cfg.Index.Concurrency)
	}
	want := filepath.Join(home, ".coursematch", "catalog")
	if cfg.CatalogPath != want {
		t.Fatalf("catalog path: got %q want %q", cfg.CatalogPath, want)
	}
}

func TestLoadFrom_ExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := filepath.Join(t.TempDir(), "coursematch.yaml")
	if err := os.WriteFile(p, []byte("catalog_path: ~/data/courses\ntop_n: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.CatalogPath != filepath.Join(home, "data", "courses") {
		t.Fatalf("unexpected catalog path: %q", cfg.CatalogPath)
	}
	if cfg.TopN != 3 {
		t.Fatalf("top_n: got %d", cfg.TopN)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "coursematch.yaml")
	if err := os.WriteFile(p, []byte("top_n: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(p); err == nil {
		t.Fatalf("expected error for invalid YAML")
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.MinScore = 0.1
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CatalogPath != cfg.CatalogPath || got.MinScore != 0.1 || got.Log.Format != "console" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
