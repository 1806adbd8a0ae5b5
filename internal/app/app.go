// Package app composes the metadata, download, and file services behind a
// single facade consumed by the command-line front end.
package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ultratube/ultratube/internal/media"
)

// MetadataProvider resolves metadata for a video URL or ID.
type MetadataProvider interface {
	GetVideoInfo(ctx context.Context, videoIDOrURL string) (*media.VideoInfo, error)
}

// MediaDownloader performs the actual downloads.
type MediaDownloader interface {
	DownloadAudio(ctx context.Context, videoID string, options media.DownloadOptions) (string, error)
	DownloadVideo(ctx context.Context, videoID string, quality string, options media.DownloadOptions) (string, error)
	DownloadSubtitles(ctx context.Context, videoID string, subtitleIDs []string, outputDir string) ([]string, error)
}

// FileProcessor post-processes downloaded files.
type FileProcessor interface {
	MergeSubtitles(ctx context.Context, mediaPath string, subtitlePaths []string, options media.ProcessOptions) (string, error)
	CleanupTempFiles(paths []string)
}

// State is the lifecycle stage of one download request.
type State int

const (
	StatePending State = iota
	StateMetadataFetched
	StateDownloading
	StateProcessing
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateMetadataFetched:
		return "metadata_fetched"
	case StateDownloading:
		return "downloading"
	case StateProcessing:
		return "processing"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// Request tracks one user-initiated download end to end. Failed is terminal:
// there is no resumption, a fresh request restarts at Pending.
type Request struct {
	ID        string
	Input     string
	State     State
	Err       error
	Output    string
	Subtitles []string
}

func newRequest(input string) *Request {
	return &Request{
		ID:    uuid.NewString(),
		Input: input,
		State: StatePending,
	}
}

func (r *Request) transition(s State) {
	if r.State.Terminal() {
		return
	}
	slog.Debug("request: state transition", "request_id", r.ID, "from", r.State, "to", s)
	r.State = s
}

func (r *Request) fail(err error) {
	r.Err = err
	r.transition(StateFailed)
	slog.Error("request: failed", "request_id", r.ID, "error", err)
}

// App is the application facade.
type App struct {
	metadata  MetadataProvider
	downloads MediaDownloader
	files     FileProcessor
}

// New creates the facade over already-constructed services.
func New(metadata MetadataProvider, downloads MediaDownloader, files FileProcessor) *App {
	return &App{metadata: metadata, downloads: downloads, files: files}
}

// DownloadAudio runs the full audio pipeline for one request: metadata,
// download, optional subtitle fetch. Errors are recorded on the request
// and also returned; the caller decides whether to start a new request.
func (a *App) DownloadAudio(ctx context.Context, input string, options media.DownloadOptions) (*Request, error) {
	req := newRequest(input)
	slog.Info("request: audio download", "request_id", req.ID, "input", input)

	info, err := a.metadata.GetVideoInfo(ctx, input)
	if err != nil {
		req.fail(err)
		return req, err
	}
	req.transition(StateMetadataFetched)

	req.transition(StateDownloading)
	audioPath, err := a.downloads.DownloadAudio(ctx, info.ID, options)
	if err != nil {
		req.fail(err)
		return req, err
	}
	req.Output = audioPath

	if len(options.SubtitleIDs) > 0 {
		subPaths, err := a.downloads.DownloadSubtitles(ctx, info.ID, options.SubtitleIDs, options.OutputDir)
		if err != nil {
			req.fail(err)
			return req, err
		}
		req.Subtitles = subPaths
	}

	req.transition(StateProcessing)
	req.transition(StateComplete)
	slog.Info("request: complete", "request_id", req.ID, "output", req.Output)
	return req, nil
}

// DownloadVideo runs the full video pipeline for one request: metadata,
// download at the requested quality, subtitle fetch and merge, temp
// cleanup. The merged container supersedes the bare download as Output.
func (a *App) DownloadVideo(ctx context.Context, input string, quality string, options media.DownloadOptions, procOptions media.ProcessOptions) (*Request, error) {
	req := newRequest(input)
	slog.Info("request: video download", "request_id", req.ID, "input", input, "quality", quality)

	info, err := a.metadata.GetVideoInfo(ctx, input)
	if err != nil {
		req.fail(err)
		return req, err
	}
	req.transition(StateMetadataFetched)

	req.transition(StateDownloading)
	videoPath, err := a.downloads.DownloadVideo(ctx, info.ID, quality, options)
	if err != nil {
		req.fail(err)
		return req, err
	}
	req.Output = videoPath

	var subPaths []string
	if len(options.SubtitleIDs) > 0 {
		subPaths, err = a.downloads.DownloadSubtitles(ctx, info.ID, options.SubtitleIDs, options.OutputDir)
		if err != nil {
			req.fail(err)
			return req, err
		}
		req.Subtitles = subPaths
	}

	req.transition(StateProcessing)
	if len(subPaths) > 0 {
		merged, err := a.files.MergeSubtitles(ctx, videoPath, subPaths, procOptions)
		if err != nil {
			req.fail(err)
			return req, err
		}
		if merged != videoPath {
			a.files.CleanupTempFiles(append([]string{videoPath}, subPaths...))
			req.Output = merged
		}
	}

	req.transition(StateComplete)
	slog.Info("request: complete", "request_id", req.ID, "output", req.Output)
	return req, nil
}
