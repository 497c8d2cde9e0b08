package catalog

import (
	"strings"
	"unicode"
)

// Manifest describes a catalog directory and how to interpret its vectors.
type Manifest struct {
	CatalogVersion int    `json:"catalog_version"`
	CreatedAt      string `json:"created_at"`
	Source         string `json:"source,omitempty"`
	ModelID        string `json:"model_id"`
	Dim            int    `json:"dim"`
	Normalize      bool   `json:"normalize"`
	VectorFile     string `json:"vector_file"`
	CoursesFile    string `json:"courses_file"`
}

// Course is one catalog entry. Its identity is its position in the catalog.
type Course struct {
	Name        string     `json:"name"`
	University  string     `json:"university"`
	Difficulty  Difficulty `json:"difficulty"`
	Skills      string     `json:"skills"`
	Description string     `json:"description"`
	TextHash    string     `json:"text_hash,omitempty"`
}

// SkillList splits Skills on commas, semicolons and runs of two or more spaces.
func (c Course) SkillList() []string {
	var out []string
	for _, part := range strings.FieldsFunc(c.Skills, func(r rune) bool { return r == ',' || r == ';' }) {
		for _, s := range strings.Split(part, "  ") {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Difficulty is the course level. Known levels are canonicalized; anything
// else is kept as free text.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
	Mixed        Difficulty = "Mixed"
	Conversant   Difficulty = "Conversant"
)

var knownDifficulties = []Difficulty{Beginner, Intermediate, Advanced, Mixed, Conversant}

// ParseDifficulty canonicalizes case and spacing of known levels.
func ParseDifficulty(s string) Difficulty {
	s = strings.Join(strings.Fields(s), " ")
	for _, d := range knownDifficulties {
		if strings.EqualFold(s, string(d)) {
			return d
		}
	}
	return Difficulty(s)
}

// Known reports whether d is one of the canonical levels.
func (d Difficulty) Known() bool {
	for _, k := range knownDifficulties {
		if d == k {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
