package catalog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

const (
	ManifestFile       = "catalog_manifest.json"
	DefaultCoursesFile = "courses.jsonl"
	DefaultVectorFile  = "vectors.f32"
)

const maxLineBytes = 4 << 20

// MaxDim bounds the manifest dimension accepted by Load.
const MaxDim = 1 << 16

// Load reads a catalog from dir containing manifest + courses + vectors.
//
// Unreadable files fail with ErrCatalogUnavailable; malformed or misaligned
// contents fail with ErrCatalogCorrupt.
func Load(dir string) (*Catalog, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	b, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read manifest %s: %w", ErrCatalogUnavailable, manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid manifest JSON %s: %w", ErrCatalogCorrupt, manifestPath, err)
	}
	if m.Dim <= 0 || m.Dim > MaxDim {
		return nil, fmt.Errorf("%w: invalid dim in manifest: %d", ErrCatalogCorrupt, m.Dim)
	}
	if m.VectorFile == "" {
		m.VectorFile = DefaultVectorFile
	}
	if m.CoursesFile == "" {
		m.CoursesFile = DefaultCoursesFile
	}

	courses, err := loadCourses(filepath.Join(dir, m.CoursesFile))
	if err != nil {
		return nil, err
	}
	vectors, err := loadVectors(filepath.Join(dir, m.VectorFile), len(courses), m.Dim)
	if err != nil {
		return nil, err
	}
	return New(m, courses, vectors)
}

func loadCourses(path string) ([]Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open courses file %s: %w", ErrCatalogUnavailable, path, err)
	}
	defer f.Close()

	out := []Course{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var c Course
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: invalid courses JSONL %s line %d: %w", ErrCatalogCorrupt, path, line, err)
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: cannot read courses file %s: %w", ErrCatalogUnavailable, path, err)
	}
	return out, nil
}

// loadVectors reads nCourses*dim little-endian float32 values and slices them per course.
func loadVectors(path string, nCourses, dim int) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open vector file %s: %w", ErrCatalogUnavailable, path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot stat vector file %s: %w", ErrCatalogUnavailable, path, err)
	}
	if st.Size()%4 != 0 {
		return nil, fmt.Errorf("%w: vector file size is not multiple of 4 bytes: %d", ErrCatalogCorrupt, st.Size())
	}
	if want := int64(nCourses) * int64(dim) * 4; st.Size() != want {
		return nil, fmt.Errorf("%w: vector file holds %d bytes, want %d (courses=%d dim=%d)",
			ErrCatalogCorrupt, st.Size(), want, nCourses, dim)
	}

	flat := make([]float32, nCourses*dim)
	if err := binary.Read(io.LimitReader(f, st.Size()), binary.LittleEndian, flat); err != nil {
		return nil, fmt.Errorf("%w: cannot read vectors from %s: %w", ErrCatalogUnavailable, path, err)
	}

	out := make([][]float32, nCourses)
	for i := range out {
		start := i * dim
		end := start + dim
		out[i] = flat[start:end:end]
	}
	return out, nil
}
