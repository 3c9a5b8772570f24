package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitizePasses bounds the strip/unescape loop; each changing pass peels off markup or one entity layer.
const sanitizePasses = 8

// SanitizeText strips any markup from user supplied free text, including markup hidden
// behind HTML entities, and returns plain unescaped text.
func SanitizeText(s string) string {
	for i := 0; i < sanitizePasses; i++ {
		clean := html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(s)))
		if clean == s {
			break
		}
		s = clean
	}
	return strings.TrimSpace(s)
}

// ParseList splits a comma separated list, trimming entries and dropping empty ones.
func ParseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
