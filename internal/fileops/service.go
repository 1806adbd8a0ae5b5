// Package fileops post-processes downloaded media through the external
// ffmpeg binary and cleans up intermediate files.
package fileops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ultratube/ultratube/internal/media"
	"github.com/ultratube/ultratube/pkg/ffmpeg"
)

// ProcessingError reports a failed post-processing subprocess (non-zero
// exit, or the binary missing from PATH).
type ProcessingError struct {
	Path string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("fileops: processing %s: %v", e.Path, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// FilesystemError reports an invalid path or insufficient permissions.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("fileops: %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Service runs ffmpeg-based post-processing steps.
type Service struct {
	// runFn executes a built command; replaced in tests.
	runFn func(ctx context.Context, cmd *ffmpeg.Command) error
}

// NewService creates a file service.
func NewService() *Service {
	return &Service{
		runFn: func(ctx context.Context, cmd *ffmpeg.Command) error {
			return cmd.Run(ctx)
		},
	}
}

// MergeSubtitles muxes subtitle files into the media container and returns
// the output path. With no subtitle files the input passes through
// untouched. Audio and video streams are copied, never re-encoded.
func (s *Service) MergeSubtitles(ctx context.Context, mediaPath string, subtitlePaths []string, options media.ProcessOptions) (string, error) {
	if len(subtitlePaths) == 0 {
		return mediaPath, nil
	}

	if _, err := os.Stat(mediaPath); err != nil {
		return "", &FilesystemError{Path: mediaPath, Err: err}
	}

	outputFormat := options.OutputFormat
	if outputFormat == "" {
		outputFormat = "mp4"
	}
	outputPath := derivedPath(mediaPath, "_subs", outputFormat)

	opts := make([]ffmpeg.Option, 0, 4+2*len(subtitlePaths))
	for _, sub := range subtitlePaths {
		opts = append(opts, ffmpeg.ExtraInput(sub))
	}
	// Map the media streams plus every subtitle input.
	opts = append(opts, ffmpeg.MapStream("0"))
	for i := range subtitlePaths {
		opts = append(opts, ffmpeg.MapStream(fmt.Sprintf("%d", i+1)))
	}
	opts = append(opts, ffmpeg.CopyVideo, ffmpeg.CopyAudio, ffmpeg.SubtitleCodec(subtitleCodecFor(outputFormat)))

	for i, sub := range subtitlePaths {
		if lang := subtitleLang(sub); lang != "" {
			opts = append(opts, ffmpeg.StreamMetadata(fmt.Sprintf("s:%d", i), "language", lang))
		}
	}

	cmd := ffmpeg.NewCommand(mediaPath, outputPath, opts...)
	slog.Info("fileops: merging subtitles", "media", mediaPath, "subtitles", len(subtitlePaths), "output", outputPath)
	if err := s.runFn(ctx, cmd); err != nil {
		return "", &ProcessingError{Path: mediaPath, Err: err}
	}

	return outputPath, nil
}

// ProcessDownload remuxes a downloaded file to options.OutputFormat, with
// an optional CRF quality pass, deleting the source unless KeepOriginal.
func (s *Service) ProcessDownload(ctx context.Context, path string, options media.ProcessOptions) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &FilesystemError{Path: path, Err: err}
	}

	outputFormat := options.OutputFormat
	if outputFormat == "" {
		outputFormat = "mp4"
	}
	outputPath := derivedPath(path, "_processed", outputFormat)

	opts := []ffmpeg.Option{ffmpeg.CopyAudio}
	if options.QualityLevel > 0 {
		opts = append(opts, ffmpeg.VideoCodec("libx264"), ffmpeg.CRF(options.QualityLevel))
	} else {
		opts = append(opts, ffmpeg.CopyVideo)
	}

	cmd := ffmpeg.NewCommand(path, outputPath, opts...)
	slog.Info("fileops: processing download", "input", path, "output", outputPath)
	if err := s.runFn(ctx, cmd); err != nil {
		return "", &ProcessingError{Path: path, Err: err}
	}

	if !options.KeepOriginal {
		if err := os.Remove(path); err != nil {
			// The processed file exists; losing the original cleanup is
			// not worth failing the request over.
			slog.Warn("fileops: could not remove original", "path", path, "error", err)
		}
	}

	return outputPath, nil
}

// CleanupTempFiles removes intermediate files best-effort. Individual
// failures are logged and never propagated; cleanup is advisory.
func (s *Service) CleanupTempFiles(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil {
			if os.IsNotExist(err) {
				slog.Debug("fileops: temp file already gone", "path", p)
			} else {
				slog.Warn("fileops: failed to delete temp file", "path", p, "error", err)
			}
			continue
		}
		slog.Debug("fileops: deleted temp file", "path", p)
	}
}

// derivedPath builds "<dir>/<base><suffix>.<format>" next to the input.
func derivedPath(path, suffix, format string) string {
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, base+suffix+"."+format)
}

// subtitleCodecFor picks the subtitle codec for a container. MP4-family
// containers need mov_text; matroska keeps the source codec.
func subtitleCodecFor(format string) string {
	switch strings.ToLower(format) {
	case "mkv", "webm":
		return "copy"
	default:
		return "mov_text"
	}
}

// subtitleLang extracts the language code from a "<title>.<lang>.vtt"
// subtitle filename. Returns "" when the name has no language segment.
func subtitleLang(path string) string {
	base := filepath.Base(path)
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return ""
	}
	lang := parts[len(parts)-2]
	// Language codes are short; anything else is part of the title.
	if len(lang) > 10 || lang == "" {
		return ""
	}
	return lang
}
