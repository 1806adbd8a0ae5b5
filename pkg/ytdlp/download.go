package ytdlp

import (
	"context"
	"fmt"
	"strings"
)

// Download fetches media for url using the caller-built output template and
// selector args. The template must be a yt-dlp -o value; selectors, embed
// flags and post-processing args are passed through verbatim so callers own
// the full option grammar.
func (c *Client) Download(ctx context.Context, url string, outputTemplate string, extraArgs ...string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(outputTemplate) == "" {
		return fmt.Errorf("ytdlp: outputTemplate is required")
	}

	args := []string{
		"-o", outputTemplate,
		"--no-playlist",
		"--no-colors",
	}
	args = append(args, extraArgs...)
	args = append(args, url)

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return nil
}

// DownloadSubtitles fetches subtitle files only (no media) for the given
// language codes, in vtt. The output template should omit the extension:
// yt-dlp appends ".<lang>.vtt" itself.
func (c *Client) DownloadSubtitles(ctx context.Context, url string, outputTemplate string, langs []string, extraArgs ...string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(outputTemplate) == "" {
		return fmt.Errorf("ytdlp: outputTemplate is required")
	}
	if len(langs) == 0 {
		return fmt.Errorf("ytdlp: at least one subtitle language is required")
	}

	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", strings.Join(langs, ","),
		"--sub-format", "vtt",
		"--convert-subs", "vtt",
		"-o", outputTemplate,
	}
	args = append(args, extraArgs...)
	args = append(args, url)

	stdout, stderr, err := c.exec(ctx, args...)
	if err != nil {
		return wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return nil
}
