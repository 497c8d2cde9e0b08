package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// columnAliases maps a lowercased header to a course field.
var columnAliases = map[string]string{
	"course name":        "name",
	"name":               "name",
	"title":              "name",
	"university":         "university",
	"institution":        "university",
	"difficulty level":   "difficulty",
	"difficulty":         "difficulty",
	"level":              "difficulty",
	"skills":             "skills",
	"course description": "description",
	"description":        "description",
}

// ReadCSV parses a course table with a header row.
//
// Headers are matched case-insensitively against the common Coursera export
// names. Rows without a course name are skipped and exact duplicate rows keep
// only their first occurrence.
func ReadCSV(r io.Reader) ([]Course, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("courses CSV is empty")
		}
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := columnAliases[h]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("courses CSV has no course name column (header: %s)", strings.Join(header, ", "))
	}

	get := func(rec []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []Course
	seen := map[Course]struct{}{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV: %w", err)
		}
		c := Course{
			Name:        get(rec, "name"),
			University:  get(rec, "university"),
			Difficulty:  ParseDifficulty(get(rec, "difficulty")),
			Skills:      get(rec, "skills"),
			Description: get(rec, "description"),
		}
		if c.Name == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
