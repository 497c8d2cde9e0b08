package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTopN        = 6
	DefaultServerAddr  = ":8080"
	DefaultConcurrency = 4
)

// LogConfig selects zerolog level and output format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ServerConfig configures `coursematch serve`.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// IndexConfig configures `coursematch index`.
type IndexConfig struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// Config is the in-memory representation of ~/.coursematch/coursematch.yaml.
type Config struct {
	CatalogPath string       `yaml:"catalog_path"`
	TopN        int          `yaml:"top_n,omitempty"`
	MinScore    float64      `yaml:"min_score,omitempty"`
	Log         LogConfig    `yaml:"log,omitempty"`
	Server      ServerConfig `yaml:"server,omitempty"`
	Index       IndexConfig  `yaml:"index,omitempty"`
}

// HomeDir returns the absolute path to ~/.coursematch/.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".coursematch"), nil
}

// ConfigPath returns the absolute path to ~/.coursematch/coursematch.yaml.
func ConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "coursematch.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the Config written on first `coursematch init`.
func DefaultConfig() (*Config, error) {
	dir, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		CatalogPath: filepath.Join(dir, "catalog"),
		TopN:        DefaultTopN,
		Log:         LogConfig{Level: "warn", Format: "console"},
		Server:      ServerConfig{Addr: DefaultServerAddr},
		Index:       IndexConfig{Concurrency: DefaultConcurrency},
	}, nil
}

// applyDefaults fills zero values left out of a hand-edited file.
func (c *Config) applyDefaults() error {
	if c.CatalogPath == "" {
		dir, err := HomeDir()
		if err != nil {
			return err
		}
		c.CatalogPath = filepath.Join(dir, "catalog")
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Index.Concurrency <= 0 {
		c.Index.Concurrency = DefaultConcurrency
	}
	return nil
}

// Load reads and parses ~/.coursematch/coursematch.yaml.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and parses the config file at path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	cfg.CatalogPath, err = ExpandPath(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save marshals cfg and writes it to ~/.coursematch/coursematch.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
