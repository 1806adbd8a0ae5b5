package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Format is one entry of the yt-dlp "formats" list. Only the fields the
// caller needs for track selection are modeled; everything else stays in
// the raw JSON.
type Format struct {
	FormatID   string  `json:"format_id"`
	FormatNote string  `json:"format_note"`
	Ext        string  `json:"ext"`
	Protocol   string  `json:"protocol"`
	Resolution string  `json:"resolution"`
	ACodec     string  `json:"acodec"`
	VCodec     string  `json:"vcodec"`
	Language   string  `json:"language"`
	ABR        float64 `json:"abr"`
	TBR        float64 `json:"tbr"`
}

// SubtitleVariant is one container variant of a subtitle track.
type SubtitleVariant struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Info is the parsed yt-dlp metadata response. Subtitles and
// AutomaticCaptions are separate namespaces: the same language code may
// appear in both, and yt-dlp never merges them.
type Info struct {
	ID                string                       `json:"id"`
	Title             string                       `json:"title"`
	WebpageURL        string                       `json:"webpage_url"`
	Extractor         string                       `json:"extractor"`
	Uploader          string                       `json:"uploader"`
	Duration          float64                      `json:"duration"`
	Thumbnail         string                       `json:"thumbnail"`
	Description       string                       `json:"description"`
	Formats           []Format                     `json:"formats"`
	Subtitles         map[string][]SubtitleVariant `json:"subtitles"`
	AutomaticCaptions map[string][]SubtitleVariant `json:"automatic_captions"`
	Raw               json.RawMessage              `json:"-"`
}

// GetInfo runs yt-dlp in "metadata only" mode and parses its JSON output.
// It uses: --dump-single-json --skip-download --no-warnings
func (c *Client) GetInfo(ctx context.Context, url string, extraArgs ...string) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}

	args := []string{"--dump-single-json", "--skip-download", "--no-warnings"}
	args = append(args, extraArgs...)
	args = append(args, url)

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	raw := bytes.TrimSpace(stdout)
	info := &Info{Raw: append([]byte(nil), raw...)}
	if err := json.Unmarshal(raw, info); err != nil {
		return nil, fmt.Errorf("ytdlp: parse json: %w", err)
	}

	return info, nil
}
