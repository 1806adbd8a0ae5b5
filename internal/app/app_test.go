package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ultratube/ultratube/internal/media"
)

type fakeMetadata struct {
	info *media.VideoInfo
	err  error
}

func (f *fakeMetadata) GetVideoInfo(ctx context.Context, videoIDOrURL string) (*media.VideoInfo, error) {
	return f.info, f.err
}

type fakeDownloads struct {
	audioPath string
	videoPath string
	subPaths  []string

	audioErr error
	videoErr error
	subsErr  error
}

func (f *fakeDownloads) DownloadAudio(ctx context.Context, videoID string, options media.DownloadOptions) (string, error) {
	return f.audioPath, f.audioErr
}

func (f *fakeDownloads) DownloadVideo(ctx context.Context, videoID string, quality string, options media.DownloadOptions) (string, error) {
	return f.videoPath, f.videoErr
}

func (f *fakeDownloads) DownloadSubtitles(ctx context.Context, videoID string, subtitleIDs []string, outputDir string) ([]string, error) {
	return f.subPaths, f.subsErr
}

type fakeFiles struct {
	mergedPath string
	mergeErr   error
	cleaned    []string
}

func (f *fakeFiles) MergeSubtitles(ctx context.Context, mediaPath string, subtitlePaths []string, options media.ProcessOptions) (string, error) {
	if f.mergeErr != nil {
		return "", f.mergeErr
	}
	if f.mergedPath != "" {
		return f.mergedPath, nil
	}
	return mediaPath, nil
}

func (f *fakeFiles) CleanupTempFiles(paths []string) {
	f.cleaned = append(f.cleaned, paths...)
}

func testApp(meta *fakeMetadata, dl *fakeDownloads, files *fakeFiles) *App {
	if meta == nil {
		meta = &fakeMetadata{info: &media.VideoInfo{ID: "abc12345678", Title: "Test"}}
	}
	if dl == nil {
		dl = &fakeDownloads{}
	}
	if files == nil {
		files = &fakeFiles{}
	}
	return New(meta, dl, files)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "pending", StatePending.String())
	require.Equal(t, "failed", StateFailed.String())
	require.True(t, StateFailed.Terminal())
	require.True(t, StateComplete.Terminal())
	require.False(t, StateDownloading.Terminal())
}

func TestDownloadAudio_HappyPath(t *testing.T) {
	dl := &fakeDownloads{audioPath: "/out/song.mp3"}
	a := testApp(nil, dl, nil)

	req, err := a.DownloadAudio(context.Background(), "abc12345678", media.DownloadOptions{OutputDir: "/out"})
	require.NoError(t, err)
	require.Equal(t, StateComplete, req.State)
	require.Equal(t, "/out/song.mp3", req.Output)
	require.NotEmpty(t, req.ID)
}

func TestDownloadAudio_MetadataFailureIsTerminal(t *testing.T) {
	meta := &fakeMetadata{err: errors.New("video unavailable")}
	a := testApp(meta, nil, nil)

	req, err := a.DownloadAudio(context.Background(), "abc12345678", media.DownloadOptions{})
	require.Error(t, err)
	require.Equal(t, StateFailed, req.State)
	require.Equal(t, err, req.Err)

	// Terminal state resists further transitions.
	req.transition(StateComplete)
	require.Equal(t, StateFailed, req.State)
}

func TestDownloadVideo_MergesAndCleansUp(t *testing.T) {
	dl := &fakeDownloads{videoPath: "/out/v.mp4", subPaths: []string{"/out/v.en.vtt"}}
	files := &fakeFiles{mergedPath: "/out/v_subs.mp4"}
	a := testApp(nil, dl, files)

	opts := media.DownloadOptions{OutputDir: "/out", SubtitleIDs: []string{"en"}}
	req, err := a.DownloadVideo(context.Background(), "abc12345678", "720p", opts, media.ProcessOptions{OutputFormat: "mp4"})
	require.NoError(t, err)
	require.Equal(t, StateComplete, req.State)
	require.Equal(t, "/out/v_subs.mp4", req.Output)
	require.Equal(t, []string{"/out/v.mp4", "/out/v.en.vtt"}, files.cleaned)
}

func TestDownloadVideo_NoSubtitlesSkipsMerge(t *testing.T) {
	dl := &fakeDownloads{videoPath: "/out/v.mp4"}
	files := &fakeFiles{}
	a := testApp(nil, dl, files)

	req, err := a.DownloadVideo(context.Background(), "abc12345678", "720p", media.DownloadOptions{OutputDir: "/out"}, media.ProcessOptions{})
	require.NoError(t, err)
	require.Equal(t, "/out/v.mp4", req.Output)
	require.Empty(t, files.cleaned)
}

func TestDownloadVideo_MergeFailureFailsRequest(t *testing.T) {
	dl := &fakeDownloads{videoPath: "/out/v.mp4", subPaths: []string{"/out/v.en.vtt"}}
	files := &fakeFiles{mergeErr: errors.New("ffmpeg: exit status 1")}
	a := testApp(nil, dl, files)

	opts := media.DownloadOptions{OutputDir: "/out", SubtitleIDs: []string{"en"}}
	req, err := a.DownloadVideo(context.Background(), "abc12345678", "720p", opts, media.ProcessOptions{})
	require.Error(t, err)
	require.Equal(t, StateFailed, req.State)
	require.Empty(t, files.cleaned, "failed merge must not delete the downloaded media")
}

func TestDownloadVideo_DownloadFailure(t *testing.T) {
	dl := &fakeDownloads{videoErr: errors.New("disk full")}
	a := testApp(nil, dl, nil)

	req, err := a.DownloadVideo(context.Background(), "abc12345678", "1080p", media.DownloadOptions{}, media.ProcessOptions{})
	require.Error(t, err)
	require.Equal(t, StateFailed, req.State)
	require.Empty(t, req.Output)
}
