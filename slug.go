package docloom

import (
	"strings"
	"unicode"
)

// Slugify creates a URL-safe identifier from a title or path segment.
// It lowercases, keeps letters and digits, turns spaces and hyphens
// into single hyphens, and drops everything else. Slugs serve both as
// filename stems and as intra-document anchor targets, so the
// transform must be deterministic.
func Slugify(s string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' || r == '_' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
