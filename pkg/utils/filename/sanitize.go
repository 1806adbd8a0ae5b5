// Package filename provides utilities for sanitizing strings into safe filenames.
package filename

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// invalidCharsRe matches characters not safe for filenames across all major OSes.
var invalidCharsRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// multiUnderscore collapses runs of underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// Sanitize converts an arbitrary string into a filename-safe form, replacing
// unsafe characters and whitespace with underscores. Leading/trailing
// underscores and dots are stripped. The output is truncated to maxLen bytes
// (0 = default of 120). Sanitize is idempotent: applying it to its own
// output yields the same string.
func Sanitize(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 120
	}

	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}

	// Replace invalid filesystem characters with underscores.
	s = invalidCharsRe.ReplaceAllString(s, "_")

	// Replace whitespace with underscores.
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return '_'
		}
		return r
	}, s)

	// Collapse consecutive underscores.
	s = multiUnderscore.ReplaceAllString(s, "_")

	// Strip leading/trailing underscores and dots (avoid hidden files /
	// trailing dots on Windows).
	s = strings.Trim(s, "_.")

	// Truncate to maxLen, but don't cut in the middle of a UTF-8 sequence.
	if len(s) > maxLen {
		s = s[:maxLen]
		for len(s) > 0 {
			r, size := utf8.DecodeLastRuneInString(s)
			if r == utf8.RuneError && size == 1 {
				s = s[:len(s)-1]
				continue
			}
			break
		}
		s = strings.TrimRight(s, "_.")
	}

	return s
}
