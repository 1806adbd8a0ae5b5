// Package format holds display-formatting helpers for the interactive tables.
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Duration converts seconds to "M:SS" or "H:MM:SS" display format.
func Duration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Bitrate formats a kbps value for display. Returns "N/A" for unknown.
func Bitrate(kbps float64) string {
	if kbps <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.0fk", kbps)
}

// Size formats a byte count for display, e.g. "12 MB".
func Size(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(bytes))
}
