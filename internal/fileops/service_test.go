package fileops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ultratube/ultratube/internal/media"
	"github.com/ultratube/ultratube/pkg/ffmpeg"
)

func newTestService(runErr error) (*Service, *[][]string) {
	var builds [][]string
	svc := NewService()
	svc.runFn = func(ctx context.Context, cmd *ffmpeg.Command) error {
		builds = append(builds, cmd.Build())
		return runErr
	}
	return svc, &builds
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestMergeSubtitles_BuildsFFmpegArgs(t *testing.T) {
	svc, builds := newTestService(nil)
	dir := t.TempDir()
	mediaPath := writeFile(t, filepath.Join(dir, "video.mp4"))
	sub := filepath.Join(dir, "video.en.vtt")

	out, err := svc.MergeSubtitles(context.Background(), mediaPath, []string{sub}, media.ProcessOptions{OutputFormat: "mp4"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "video_subs.mp4"), out)

	require.Len(t, *builds, 1)
	args := (*builds)[0]
	require.Equal(t, []string{
		"-hide_banner", "-y",
		"-i", mediaPath,
		"-i", sub,
		"-map", "0",
		"-map", "1",
		"-c:v", "copy",
		"-c:a", "copy",
		"-c:s", "mov_text",
		"-metadata:s:s:0", "language=en",
		"-movflags", "+faststart",
		out,
	}, args)
}

func TestMergeSubtitles_NoSubtitlesPassesThrough(t *testing.T) {
	svc, builds := newTestService(nil)

	out, err := svc.MergeSubtitles(context.Background(), "whatever.mp4", nil, media.ProcessOptions{})
	require.NoError(t, err)
	require.Equal(t, "whatever.mp4", out)
	require.Empty(t, *builds)
}

func TestMergeSubtitles_MissingMediaIsFilesystemError(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.MergeSubtitles(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"), []string{"s.en.vtt"}, media.ProcessOptions{})
	var fe *FilesystemError
	require.ErrorAs(t, err, &fe)
}

func TestMergeSubtitles_SubprocessFailureIsProcessingError(t *testing.T) {
	svc, _ := newTestService(errors.New("exit status 1"))
	dir := t.TempDir()
	mediaPath := writeFile(t, filepath.Join(dir, "video.mp4"))

	_, err := svc.MergeSubtitles(context.Background(), mediaPath, []string{"s.en.vtt"}, media.ProcessOptions{})
	var pe *ProcessingError
	require.ErrorAs(t, err, &pe)
}

func TestProcessDownload_RemuxCopiesStreams(t *testing.T) {
	svc, builds := newTestService(nil)
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "video.webm"))

	out, err := svc.ProcessDownload(context.Background(), path, media.ProcessOptions{OutputFormat: "mp4", KeepOriginal: true})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "video_processed.mp4"), out)

	args := (*builds)[0]
	require.Contains(t, args, "-c:a")
	require.Contains(t, args, "-c:v")
	require.NotContains(t, args, "-crf")

	// KeepOriginal leaves the source in place.
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}

func TestProcessDownload_QualityPassUsesCRF(t *testing.T) {
	svc, builds := newTestService(nil)
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "video.mp4"))

	_, err := svc.ProcessDownload(context.Background(), path, media.ProcessOptions{OutputFormat: "mp4", QualityLevel: 23})
	require.NoError(t, err)

	args := (*builds)[0]
	require.Contains(t, args, "-crf")
	require.Contains(t, args, "23")
	require.Contains(t, args, "libx264")

	// Original deleted when KeepOriginal is false.
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestCleanupTempFiles_ToleratesMissing(t *testing.T) {
	svc, _ := newTestService(nil)
	dir := t.TempDir()
	existing := writeFile(t, filepath.Join(dir, "keepme.vtt"))
	missing := filepath.Join(dir, "already-deleted.vtt")

	// Must complete without panicking or returning: one delete, one logged miss.
	svc.CleanupTempFiles([]string{existing, missing, ""})

	_, err := os.Stat(existing)
	require.True(t, os.IsNotExist(err))
}

func TestSubtitleLang(t *testing.T) {
	require.Equal(t, "en", subtitleLang("/tmp/My_Video.en.vtt"))
	require.Equal(t, "pt-BR", subtitleLang("My_Video.pt-BR.vtt"))
	require.Equal(t, "", subtitleLang("video.vtt"))
}
