// Package language maps extractor language codes to human-readable names.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DisplayName returns the English display name for a BCP 47 language code,
// e.g. "en" -> "English", "pt-BR" -> "Brazilian Portuguese". Codes that do
// not parse are returned unchanged; yt-dlp emits a few synthetic ones
// (like "live_chat") that have no linguistic meaning.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return code
	}

	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}
