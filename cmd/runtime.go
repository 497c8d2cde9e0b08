package cmd

import (
	"context"
	"fmt"

	"github.com/kamusis/coursematch/internal/catalog"
	"github.com/kamusis/coursematch/internal/config"
	"github.com/kamusis/coursematch/internal/embeddings"
	"github.com/kamusis/coursematch/internal/logging"
	"github.com/kamusis/coursematch/internal/metrics"
	"github.com/kamusis/coursematch/internal/recommend"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'coursematch init' first.", err)
	}
	return cfg, nil
}

// openProvider resolves the embeddings config, builds the provider and probes it once.
func openProvider(ctx context.Context) (embeddings.Provider, error) {
	embCfg, err := embeddings.LoadConfig()
	if err != nil {
		return nil, err
	}
	prov, err := embeddings.NewFromConfig(embCfg)
	if err != nil {
		return nil, err
	}
	dim, err := embeddings.Probe(ctx, prov)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("model", prov.ModelID()).Int("dim", dim).Msg("embeddings provider ready")
	return prov, nil
}

// openService loads the catalog and provider once and wires them into a Service.
func openService(ctx context.Context, cfg *config.Config, minScore float64) (*recommend.Service, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("%w\nRun 'coursematch index <courses.csv>' to build it.", err)
	}
	logging.Debug().
		Str("path", cfg.CatalogPath).
		Int("courses", cat.Size()).
		Int("dim", cat.Dim()).
		Str("model", cat.ModelID()).
		Msg("catalog loaded")
	metrics.SetCatalog(cat.Size(), cat.Dim())

	prov, err := openProvider(ctx)
	if err != nil {
		return nil, err
	}
	return recommend.NewService(cat, prov, recommend.Options{MinScore: minScore}, logging.Logger())
}
