// Package catalog holds the read-only course catalog: course records paired
// one-to-one with their precomputed embedding vectors.
//
// A Catalog never changes after New or Load returns, so any number of
// goroutines may read it without locking.
package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable indicates the catalog source cannot be read at all.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrCatalogCorrupt indicates the catalog was read but is malformed or misaligned.
	ErrCatalogCorrupt = errors.New("catalog corrupt")
)

// Catalog is an immutable, aligned sequence of courses and vectors.
type Catalog struct {
	manifest Manifest
	courses  []Course
	vectors  [][]float32
}

// New builds a catalog from already materialized records and vectors.
//
// Courses and vectors must have the same length, every vector must have the
// same dimension, and every course must have a name. An empty catalog is valid.
func New(m Manifest, courses []Course, vectors [][]float32) (*Catalog, error) {
	if len(courses) != len(vectors) {
		return nil, fmt.Errorf("%w: %d courses but %d vectors", ErrCatalogCorrupt, len(courses), len(vectors))
	}
	if len(vectors) > 0 {
		dim := len(vectors[0])
		if dim == 0 {
			return nil, fmt.Errorf("%w: vector 0 is empty", ErrCatalogCorrupt)
		}
		if m.Dim != 0 && m.Dim != dim {
			return nil, fmt.Errorf("%w: manifest dim %d but vectors have %d", ErrCatalogCorrupt, m.Dim, dim)
		}
		for i, v := range vectors {
			if len(v) != dim {
				return nil, fmt.Errorf("%w: vector %d has dim %d, want %d", ErrCatalogCorrupt, i, len(v), dim)
			}
		}
		m.Dim = dim
	}
	for i, c := range courses {
		if isBlank(c.Name) {
			return nil, fmt.Errorf("%w: course %d has no name", ErrCatalogCorrupt, i)
		}
	}
	return &Catalog{manifest: m, courses: courses, vectors: vectors}, nil
}

// Get returns the course at position i.
func (c *Catalog) Get(i int) (Course, bool) {
	if i < 0 || i >= len(c.courses) {
		return Course{}, false
	}
	return c.courses[i], true
}

// Size returns the number of courses.
func (c *Catalog) Size() int {
	return len(c.courses)
}

// Dim returns the vector dimension, or the manifest's declared dimension when empty.
func (c *Catalog) Dim() int {
	return c.manifest.Dim
}

// Vectors returns the catalog's vectors aligned with course positions.
// The slice is shared; callers must not modify it.
func (c *Catalog) Vectors() [][]float32 {
	return c.vectors
}

// Manifest returns a copy of the catalog manifest.
func (c *Catalog) Manifest() Manifest {
	return c.manifest
}

// ModelID returns the embedding model the vectors were produced with.
func (c *Catalog) ModelID() string {
	return c.manifest.ModelID
}
