package domain

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Slugify lowercases a category name and replaces each whitespace run with a hyphen.
func Slugify(name string) string {
	return reSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
