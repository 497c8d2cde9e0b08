package catalog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// CurrentVersion is the catalog directory layout version written by Write.
const CurrentVersion = 1

// Write writes catalog artifacts to dir.
func Write(dir string, manifest Manifest, courses []Course, vectors [][]float32) error {
	if manifest.Dim <= 0 {
		return fmt.Errorf("invalid dim: %d", manifest.Dim)
	}
	if len(courses) == 0 {
		return fmt.Errorf("no courses to write")
	}
	if len(vectors) != len(courses) {
		return fmt.Errorf("vector count mismatch: got %d want %d", len(vectors), len(courses))
	}
	for i, v := range vectors {
		if len(v) != manifest.Dim {
			return fmt.Errorf("vector %d has dim %d, want %d", i, len(v), manifest.Dim)
		}
	}
	if manifest.CatalogVersion == 0 {
		manifest.CatalogVersion = CurrentVersion
	}
	if manifest.VectorFile == "" {
		manifest.VectorFile = DefaultVectorFile
	}
	if manifest.CoursesFile == "" {
		manifest.CoursesFile = DefaultCoursesFile
	}
	if manifest.CreatedAt == "" {
		manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create catalog dir %s: %w", dir, err)
	}

	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), mb, 0o644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}

	if err := writeCourses(filepath.Join(dir, manifest.CoursesFile), courses); err != nil {
		return err
	}

	vf, err := os.Create(filepath.Join(dir, manifest.VectorFile))
	if err != nil {
		return fmt.Errorf("cannot create vectors file: %w", err)
	}
	bw := bufio.NewWriter(vf)
	for _, v := range vectors {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			_ = vf.Close()
			return fmt.Errorf("cannot write vectors: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = vf.Close()
		return fmt.Errorf("cannot write vectors: %w", err)
	}
	return vf.Close()
}

func writeCourses(path string, courses []Course) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create courses file: %w", err)
	}
	bw := bufio.NewWriter(f)
	for _, c := range courses {
		line, err := json.Marshal(c)
		if err != nil {
			_ = f.Close()
			return err
		}
		if _, err := bw.Write(line); err != nil {
			_ = f.Close()
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
