package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalText returns the text embedded for a course.
func CanonicalText(c Course) string {
	parts := []string{"name: " + clean(c.Name)}
	if s := clean(c.University); s != "" {
		parts = append(parts, "university: "+s)
	}
	if s := clean(string(c.Difficulty)); s != "" {
		parts = append(parts, "difficulty: "+s)
	}
	if skills := c.SkillList(); len(skills) > 0 {
		parts = append(parts, "skills: "+clean(strings.Join(skills, ", ")))
	}
	if s := clean(c.Description); s != "" {
		parts = append(parts, "description: "+s)
	}
	return strings.Join(parts, "\n")
}

// TextHash returns a sha256 hash (hex) of the canonical text.
func TextHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// clean NFC-normalizes s and collapses internal whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
