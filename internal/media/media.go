// Package media holds the typed intermediate representation for video
// metadata and the option structs passed through the download pipeline.
// Everything here is constructed once at the extraction boundary so that
// downstream code never inspects raw extractor output.
package media

// Format is one downloadable stream variant as reported by the extractor.
type Format struct {
	FormatID   string
	FormatNote string
	Ext        string
	Protocol   string
	Resolution string
	ACodec     string
	VCodec     string
	Language   string
	ABR        float64 // audio bitrate in kbps, 0 if unknown
}

// HasAudio reports whether the format carries an audio stream.
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// IsAudioOnly reports whether the format is an audio-only stream.
func (f Format) IsAudioOnly() bool {
	if f.Resolution == "audio only" {
		return true
	}
	return (f.VCodec == "none" || f.VCodec == "") && f.HasAudio()
}

// SubtitleVariant is one container variant of a subtitle track.
type SubtitleVariant struct {
	Ext  string
	URL  string
	Name string
}

// VideoInfo is the resolved metadata for a single video. Instances are
// immutable once constructed; one instance per cache entry.
type VideoInfo struct {
	ID           string
	Title        string
	Formats      []Format
	Subtitles    map[string][]SubtitleVariant // human-authored, by language code
	AutoCaptions map[string][]SubtitleVariant // machine-generated, by language code
	Duration     int                          // seconds, 0 if unknown
	ThumbnailURL string
	Description  string
}

// AudioTrack is a user-selectable audio stream derived from Formats.
type AudioTrack struct {
	Language    string
	FormatID    string
	Description string
	Codec       string
	Bitrate     float64 // kbps, 0 if unknown
}

// Subtitle is a user-selectable subtitle track. Human and auto-generated
// tracks are distinct namespaces; both may exist for one language code.
type Subtitle struct {
	Language        string
	LanguageCode    string
	FormatID        string
	IsAutoGenerated bool
}

// ID returns the selector passed to the extractor for this track.
// yt-dlp addresses auto-captions by the same language code as human subs,
// so the namespace is only meaningful for display and merge decisions.
func (s Subtitle) ID() string {
	return s.LanguageCode
}

// DownloadOptions configures a single user-initiated download.
type DownloadOptions struct {
	OutputDir        string
	IncludeMetadata  bool
	IncludeThumbnail bool
	IncludeChapters  bool
	AudioFormatID    string
	SubtitleIDs      []string
}

// DefaultDownloadOptions returns options matching the interactive defaults.
func DefaultDownloadOptions(outputDir string) DownloadOptions {
	return DownloadOptions{
		OutputDir:        outputDir,
		IncludeMetadata:  true,
		IncludeThumbnail: true,
		IncludeChapters:  true,
	}
}

// ProcessOptions configures one post-processing step.
type ProcessOptions struct {
	KeepOriginal bool
	OutputFormat string
	QualityLevel int // CRF value, 0 = leave quality untouched
}
