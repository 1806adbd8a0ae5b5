package filename

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain title", "My Video Title", 0, "My_Video_Title"},
		{"invalid chars", `What? A "Video": Part 1/2`, 0, "What_A_Video_Part_1_2"},
		{"collapses runs", "a  --  b", 0, "a_--_b"},
		{"strips edges", "..._hidden_...", 0, "hidden"},
		{"empty", "   ", 0, ""},
		{"truncation", "aaaaaaaaaa", 4, "aaaa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.in, tt.max))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"My Video Title",
		`tricky: <name> | with * stuff?`,
		"unicode – títle – ütf8 🎵",
		"trailing dots...",
		"   spaced   out   ",
	}

	for _, in := range inputs {
		once := Sanitize(in, 0)
		twice := Sanitize(once, 0)
		require.Equal(t, once, twice, "sanitize not idempotent for %q", in)
	}
}

func TestSanitize_TruncationRespectsUTF8(t *testing.T) {
	// "ü" is two bytes; cutting at 5 bytes would split the rune.
	got := Sanitize("aaaaüb", 5)
	require.Equal(t, "aaaa", got)
	require.Equal(t, got, Sanitize(got, 5))
}
