// Package recommend turns a free-text query into a ranked list of courses.
//
// A Service is built once from an already loaded catalog and a ready
// embedding provider. It keeps no per-query state, so Recommend may be called
// from many goroutines at once.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/kamusis/coursematch/internal/catalog"
	"github.com/kamusis/coursematch/internal/embeddings"
	"github.com/kamusis/coursematch/internal/metrics"
	"github.com/kamusis/coursematch/internal/rank"
)

// DefaultTopN is the number of results returned when the caller does not ask for another count.
const DefaultTopN = 6

var (
	// ErrEmptyQuery indicates the query was empty after trimming whitespace.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrModelMismatch indicates the catalog was embedded with a different model than the provider.
	ErrModelMismatch = errors.New("catalog model does not match embedding provider")
)

// Options tunes result filtering.
type Options struct {
	// MinScore drops hits scoring below it. Zero or negative disables the filter.
	MinScore float64
}

// Result is one recommended course.
type Result struct {
	Rank   int            `json:"rank"`
	Index  int            `json:"index"`
	Score  float64        `json:"score"`
	Course catalog.Course `json:"course"`
}

// Service answers recommendation queries against a fixed catalog.
type Service struct {
	cat    *catalog.Catalog
	prov   embeddings.Provider
	opts   Options
	logger zerolog.Logger
}

// NewService checks that cat and prov share a vector space and returns a Service.
func NewService(cat *catalog.Catalog, prov embeddings.Provider, opts Options, logger zerolog.Logger) (*Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: catalog is nil", catalog.ErrCatalogUnavailable)
	}
	if prov == nil {
		return nil, fmt.Errorf("%w: provider is nil", embeddings.ErrModelUnavailable)
	}
	if m := cat.ModelID(); m != "" && m != prov.ModelID() {
		return nil, fmt.Errorf("%w: catalog=%s provider=%s", ErrModelMismatch, m, prov.ModelID())
	}
	if pd, cd := prov.Dim(), cat.Dim(); pd > 0 && cd > 0 && pd != cd {
		return nil, fmt.Errorf("%w: catalog dim %d, provider dim %d", rank.ErrDimensionMismatch, cd, pd)
	}
	return &Service{
		cat:    cat,
		prov:   prov,
		opts:   opts,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Catalog returns the catalog the service ranks against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.cat
}

// Recommend embeds query and returns up to topN courses, best first.
//
// Blank queries fail with ErrEmptyQuery before the provider is called.
// topN <= 0 yields an empty result.
func (s *Service) Recommend(ctx context.Context, query string, topN int) ([]Result, error) {
	start := time.Now()
	query = norm.NFC.String(strings.TrimSpace(query))
	if query == "" {
		metrics.RecordRecommend(metrics.OutcomeEmptyQuery, 0, 0)
		return nil, ErrEmptyQuery
	}

	vec, err := s.prov.Embed(ctx, query)
	if err != nil {
		metrics.RecordRecommend(metrics.OutcomeEmbedError, 0, 0)
		return nil, fmt.Errorf("cannot embed query: %w", err)
	}
	if s.cat.Manifest().Normalize {
		vec = rank.NormalizeL2(vec)
	}

	hits, err := rank.Rank(vec, s.cat.Vectors(), topN)
	if err != nil {
		metrics.RecordRecommend(metrics.OutcomeDimensionMismatch, 0, 0)
		return nil, err
	}

	out := make([]Result, 0, len(hits))
	for _, h := range hits {
		if s.opts.MinScore > 0 && h.Score < s.opts.MinScore {
			// Hits are ordered, so the rest score lower too.
			break
		}
		c, ok := s.cat.Get(h.Index)
		if !ok {
			continue
		}
		out = append(out, Result{Rank: len(out) + 1, Index: h.Index, Score: h.Score, Course: c})
	}

	elapsed := time.Since(start)
	metrics.RecordRecommend(metrics.OutcomeOK, elapsed, len(out))
	s.logger.Debug().
		Int("query_len", len(query)).
		Int("top_n", topN).
		Int("hits", len(out)).
		Dur("duration", elapsed).
		Msg("recommend")
	return out, nil
}
