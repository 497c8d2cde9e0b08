package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kamusis/coursematch/internal/embeddings"
	"github.com/kamusis/coursematch/internal/rank"
)

// BuildOptions controls catalog building.
type BuildOptions struct {
	OutDir string
	// Source is recorded in the manifest, typically the input CSV path.
	Source string
	// Previous is an existing catalog whose vectors are reused for unchanged
	// courses embedded with the same model.
	Previous    *Catalog
	Force       bool
	Normalize   bool
	Concurrency int
	// Progress, if set, is called after each course is resolved. Calls are serialized.
	Progress func(done, total int)
}

// BuildStats reports how a build resolved its vectors.
type BuildStats struct {
	Embedded int
	Reused   int
}

// Build embeds courses and writes a catalog to opts.OutDir.
//
// It is the caller's responsibility to install the result, e.g. with AtomicSwap.
func Build(ctx context.Context, prov embeddings.Provider, courses []Course, opts BuildOptions) (*Catalog, BuildStats, error) {
	var stats BuildStats
	if opts.OutDir == "" {
		return nil, stats, fmt.Errorf("out dir is required")
	}
	if len(courses) == 0 {
		return nil, stats, fmt.Errorf("no courses to index")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	reuse := map[string][]float32{}
	if prev := opts.Previous; prev != nil && !opts.Force &&
		prev.ModelID() == prov.ModelID() && prev.Manifest().Normalize == opts.Normalize {
		for i := 0; i < prev.Size(); i++ {
			c, _ := prev.Get(i)
			if c.TextHash != "" {
				reuse[c.TextHash] = prev.Vectors()[i]
			}
		}
	}

	entries := make([]Course, len(courses))
	vectors := make([][]float32, len(courses))
	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		done++
		opts.Progress(done, len(courses))
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, c := range courses {
		i, c := i, c
		text := CanonicalText(c)
		c.TextHash = TextHash(text)
		entries[i] = c

		if v, ok := reuse[c.TextHash]; ok {
			vectors[i] = append([]float32(nil), v...)
			stats.Reused++
			report()
			continue
		}
		stats.Embedded++

		g.Go(func() error {
			emb, err := prov.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("course %d (%s): %w", i, c.Name, err)
			}
			if opts.Normalize {
				emb = rank.NormalizeL2(emb)
			}
			vectors[i] = emb
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, stats, fmt.Errorf("embedding dim changed mid-run: course %d has %d, want %d", i, len(v), dim)
		}
	}

	manifest := Manifest{
		CatalogVersion: CurrentVersion,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Source:         opts.Source,
		ModelID:        prov.ModelID(),
		Dim:            dim,
		Normalize:      opts.Normalize,
		VectorFile:     DefaultVectorFile,
		CoursesFile:    DefaultCoursesFile,
	}
	if err := Write(opts.OutDir, manifest, entries, vectors); err != nil {
		return nil, stats, err
	}
	cat, err := New(manifest, entries, vectors)
	if err != nil {
		return nil, stats, err
	}
	return cat, stats, nil
}

// AtomicSwap replaces destDir with srcDir by renaming.
func AtomicSwap(srcDir, destDir string) error {
	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	backup := destDir + ".bak"
	_ = os.RemoveAll(backup)
	if _, err := os.Stat(destDir); err == nil {
		if err := os.Rename(destDir, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(srcDir, destDir); err != nil {
		// rollback best-effort
		if _, stErr := os.Stat(backup); stErr == nil {
			_ = os.Rename(backup, destDir)
		}
		return err
	}
	_ = os.RemoveAll(backup)
	return nil
}
