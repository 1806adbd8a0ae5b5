// Package download builds yt-dlp selectors from user-chosen options and
// runs the actual media downloads. Retry policy is deliberately absent:
// a failed transfer surfaces to the caller, who may start a fresh request.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ultratube/ultratube/internal/media"
	"github.com/ultratube/ultratube/internal/metadata"
	"github.com/ultratube/ultratube/internal/videoid"
	"github.com/ultratube/ultratube/pkg/utils/filename"
)

// DownloadError reports a failed transfer (network interruption, disk
// full, permission error, extractor refusal).
type DownloadError struct {
	VideoID string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download: %s: %v", e.VideoID, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Downloader is the external download boundary, satisfied by *ytdlp.Client.
type Downloader interface {
	Download(ctx context.Context, url string, outputTemplate string, extraArgs ...string) error
	DownloadSubtitles(ctx context.Context, url string, outputTemplate string, langs []string, extraArgs ...string) error
}

// Service turns DownloadOptions into extractor invocations.
type Service struct {
	downloader Downloader
	metadata   *metadata.Service
}

// NewService creates a download service.
func NewService(downloader Downloader, metadata *metadata.Service) *Service {
	return &Service{downloader: downloader, metadata: metadata}
}

// qualityFormats maps the interactive quality labels to yt-dlp video
// format selectors.
var qualityFormats = map[string]string{
	"highest": "bestvideo[ext=mp4]",
	"1080p":   "bestvideo[height<=1080][ext=mp4]",
	"720p":    "bestvideo[height<=720][ext=mp4]",
	"480p":    "bestvideo[height<=480][ext=mp4]",
	"360p":    "bestvideo[height<=360][ext=mp4]",
	"240p":    "bestvideo[height<=240][ext=mp4]",
}

// QualityLabels returns the supported video quality labels, best first.
func QualityLabels() []string {
	return []string{"highest", "1080p", "720p", "480p", "360p", "240p"}
}

// DownloadAudio downloads the selected (or best) audio track as mp3 and
// returns the local file path.
func (s *Service) DownloadAudio(ctx context.Context, videoID string, options media.DownloadOptions) (string, error) {
	info, err := s.metadata.GetVideoInfo(ctx, videoID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(options.OutputDir, 0o755); err != nil {
		return "", &DownloadError{VideoID: info.ID, Err: err}
	}

	selector := options.AudioFormatID
	if selector == "" {
		selector = "bestaudio/best"
	}

	args := []string{
		"-f", selector,
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
	}
	args = append(args, embedArgs(options)...)

	safeTitle := filename.Sanitize(info.Title, 0)
	tmpl := filepath.Join(options.OutputDir, safeTitle+".%(ext)s")

	slog.Info("download: audio", "video_id", info.ID, "format", selector, "dir", options.OutputDir)
	if err := s.downloader.Download(ctx, videoid.WatchURL(info.ID), tmpl, args...); err != nil {
		return "", &DownloadError{VideoID: info.ID, Err: err}
	}

	return filepath.Join(options.OutputDir, safeTitle+".mp3"), nil
}

// DownloadVideo downloads video at the requested quality label, merged with
// the selected (or best) audio track into mp4, and returns the local path.
func (s *Service) DownloadVideo(ctx context.Context, videoID string, quality string, options media.DownloadOptions) (string, error) {
	info, err := s.metadata.GetVideoInfo(ctx, videoID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(options.OutputDir, 0o755); err != nil {
		return "", &DownloadError{VideoID: info.ID, Err: err}
	}

	selector := buildVideoSelector(quality, options.AudioFormatID)

	args := []string{
		"-f", selector,
		"--merge-output-format", "mp4",
	}
	args = append(args, embedArgs(options)...)

	safeTitle := filename.Sanitize(info.Title, 0)
	tmpl := filepath.Join(options.OutputDir, safeTitle+".%(ext)s")

	slog.Info("download: video", "video_id", info.ID, "quality", quality, "format", selector, "dir", options.OutputDir)
	if err := s.downloader.Download(ctx, videoid.WatchURL(info.ID), tmpl, args...); err != nil {
		return "", &DownloadError{VideoID: info.ID, Err: err}
	}

	return filepath.Join(options.OutputDir, safeTitle+".mp4"), nil
}

// DownloadSubtitles fetches the given subtitle languages as .vtt files and
// returns the paths that actually appeared on disk. Languages the extractor
// could not produce are skipped silently; the caller sees what exists.
func (s *Service) DownloadSubtitles(ctx context.Context, videoID string, subtitleIDs []string, outputDir string) ([]string, error) {
	if len(subtitleIDs) == 0 {
		return nil, nil
	}

	info, err := s.metadata.GetVideoInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, &DownloadError{VideoID: info.ID, Err: err}
	}

	safeTitle := filename.Sanitize(info.Title, 0)
	tmpl := filepath.Join(outputDir, safeTitle)

	slog.Info("download: subtitles", "video_id", info.ID, "langs", subtitleIDs)
	if err := s.downloader.DownloadSubtitles(ctx, videoid.WatchURL(info.ID), tmpl, subtitleIDs); err != nil {
		return nil, &DownloadError{VideoID: info.ID, Err: err}
	}

	var paths []string
	for _, lang := range subtitleIDs {
		p := fmt.Sprintf("%s.%s.vtt", tmpl, lang)
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		} else {
			slog.Warn("download: expected subtitle file missing", "video_id", info.ID, "lang", lang, "path", p)
		}
	}

	return paths, nil
}

// buildVideoSelector composes the yt-dlp format selector for a quality
// label, the chosen audio track, and a progressive-download fallback chain.
func buildVideoSelector(quality string, audioFormatID string) string {
	selector, ok := qualityFormats[quality]
	if !ok {
		selector = qualityFormats["highest"]
	}

	if audioFormatID != "" {
		selector += "+" + audioFormatID
	} else {
		selector += "+bestaudio[ext=m4a]"
	}

	height := "1080"
	if len(quality) > 1 && quality[len(quality)-1] == 'p' {
		if h := quality[:len(quality)-1]; isDigits(h) {
			height = h
		}
	}
	selector += fmt.Sprintf("/best[height<=%s][ext=mp4]/best", height)

	return selector
}

func embedArgs(options media.DownloadOptions) []string {
	var args []string
	if options.IncludeThumbnail {
		args = append(args, "--write-thumbnail", "--embed-thumbnail")
	}
	if options.IncludeMetadata {
		args = append(args, "--embed-metadata")
	}
	if options.IncludeChapters {
		args = append(args, "--embed-chapters")
	}
	return args
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
