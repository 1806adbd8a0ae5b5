// Package metadata resolves video metadata through the external extractor,
// caches it, and derives the audio-track and subtitle lists shown to the
// user.
package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ultratube/ultratube/internal/media"
	"github.com/ultratube/ultratube/internal/videoid"
	"github.com/ultratube/ultratube/pkg/utils/language"
	"github.com/ultratube/ultratube/pkg/ytdlp"
)

// ExtractionError reports that the external extractor could not resolve the
// input (invalid URL, network failure, video unavailable/private).
type ExtractionError struct {
	Input string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("metadata: extraction failed for %q: %v", e.Input, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor is the external metadata boundary, satisfied by *ytdlp.Client.
type Extractor interface {
	GetInfo(ctx context.Context, url string, extraArgs ...string) (*ytdlp.Info, error)
}

// Service wraps the extractor with the session cache and derivation logic.
type Service struct {
	extractor Extractor
	cache     *Cache
}

// NewService creates a metadata service using the given extractor and cache.
func NewService(extractor Extractor, cache *Cache) *Service {
	return &Service{extractor: extractor, cache: cache}
}

// GetVideoInfo resolves a video URL or bare ID to its metadata, consulting
// the cache first. On a miss the extractor is invoked and the result cached;
// on failure nothing is cached and an *ExtractionError is returned.
func (s *Service) GetVideoInfo(ctx context.Context, videoIDOrURL string) (*media.VideoInfo, error) {
	id, err := videoid.Normalize(videoIDOrURL)
	if err != nil {
		return nil, &ExtractionError{Input: videoIDOrURL, Err: err}
	}

	if info, ok := s.cache.Get(id); ok {
		slog.Debug("metadata: cache hit", "video_id", id)
		return info, nil
	}

	raw, err := s.extractor.GetInfo(ctx, videoid.WatchURL(id))
	if err != nil {
		return nil, &ExtractionError{Input: videoIDOrURL, Err: err}
	}

	info := buildVideoInfo(raw)
	s.cache.Put(id, info)
	slog.Debug("metadata: fetched and cached", "video_id", id, "title", info.Title, "formats", len(info.Formats))

	return info, nil
}

// GetAudioTracks returns the selectable audio tracks for a video, one per
// language, in format-list order. Formats without an audio stream are never
// included.
func (s *Service) GetAudioTracks(ctx context.Context, videoIDOrURL string) ([]media.AudioTrack, error) {
	info, err := s.GetVideoInfo(ctx, videoIDOrURL)
	if err != nil {
		return nil, err
	}

	var tracks []media.AudioTrack
	seen := make(map[string]bool)

	for _, f := range info.Formats {
		if !f.IsAudioOnly() {
			continue
		}

		lang := audioLanguage(f)
		if seen[strings.ToLower(lang)] {
			continue
		}

		tracks = append(tracks, media.AudioTrack{
			Language:    lang,
			FormatID:    f.FormatID,
			Description: audioDescription(lang, f),
			Codec:       f.ACodec,
			Bitrate:     f.ABR,
		})
		seen[strings.ToLower(lang)] = true
	}

	return tracks, nil
}

// GetAvailableSubtitles returns the subtitle tracks for a video. Human and
// auto-generated tracks are distinct namespaces: a language code present in
// both yields two entries, never one.
func (s *Service) GetAvailableSubtitles(ctx context.Context, videoIDOrURL string) ([]media.Subtitle, error) {
	info, err := s.GetVideoInfo(ctx, videoIDOrURL)
	if err != nil {
		return nil, err
	}

	var subs []media.Subtitle
	subs = appendSubtitles(subs, info.Subtitles, false)
	subs = appendSubtitles(subs, info.AutoCaptions, true)

	// Stable order: by language code, human tracks before auto-generated.
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].LanguageCode != subs[j].LanguageCode {
			return subs[i].LanguageCode < subs[j].LanguageCode
		}
		return !subs[i].IsAutoGenerated && subs[j].IsAutoGenerated
	})

	return subs, nil
}

func appendSubtitles(subs []media.Subtitle, tracks map[string][]media.SubtitleVariant, auto bool) []media.Subtitle {
	for code, variants := range tracks {
		if len(variants) == 0 {
			continue
		}

		name := variants[0].Name
		if name == "" {
			name = language.DisplayName(code)
		}

		subs = append(subs, media.Subtitle{
			Language:        name,
			LanguageCode:    code,
			FormatID:        variants[0].Ext,
			IsAutoGenerated: auto,
		})
	}
	return subs
}

// audioLanguage extracts a display language for an audio format. yt-dlp
// typically encodes it in format_note ("English - original, ...") and falls
// back to the language tag; "original" is the default when neither exists.
func audioLanguage(f media.Format) string {
	note := f.FormatNote
	if note != "" {
		if name, _, found := strings.Cut(note, " - "); found {
			return strings.TrimSpace(name)
		}
		return strings.TrimSpace(note)
	}
	if f.Language != "" {
		return f.Language
	}
	return "original"
}

func audioDescription(lang string, f media.Format) string {
	var b strings.Builder
	b.WriteString(lang)
	b.WriteString(" (")
	b.WriteString(f.Ext)
	if f.Protocol != "" && f.Protocol != "http" && f.Protocol != "https" {
		b.WriteString(", ")
		b.WriteString(f.Protocol)
	}
	if f.ABR > 0 {
		fmt.Fprintf(&b, ", %.0fk", f.ABR)
	}
	b.WriteString(")")
	if strings.Contains(strings.ToLower(f.FormatNote), "dubbed") {
		b.WriteString(" [dubbed]")
	}
	return b.String()
}

// buildVideoInfo constructs the typed intermediate representation from the
// raw extractor response. Downstream code never touches raw JSON.
func buildVideoInfo(raw *ytdlp.Info) *media.VideoInfo {
	title := raw.Title
	if title == "" {
		title = "Untitled"
	}

	formats := make([]media.Format, 0, len(raw.Formats))
	for _, f := range raw.Formats {
		formats = append(formats, media.Format{
			FormatID:   f.FormatID,
			FormatNote: f.FormatNote,
			Ext:        f.Ext,
			Protocol:   f.Protocol,
			Resolution: f.Resolution,
			ACodec:     f.ACodec,
			VCodec:     f.VCodec,
			Language:   f.Language,
			ABR:        f.ABR,
		})
	}

	return &media.VideoInfo{
		ID:           raw.ID,
		Title:        title,
		Formats:      formats,
		Subtitles:    convertSubtitles(raw.Subtitles),
		AutoCaptions: convertSubtitles(raw.AutomaticCaptions),
		Duration:     int(raw.Duration),
		ThumbnailURL: raw.Thumbnail,
		Description:  raw.Description,
	}
}

func convertSubtitles(in map[string][]ytdlp.SubtitleVariant) map[string][]media.SubtitleVariant {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]media.SubtitleVariant, len(in))
	for code, variants := range in {
		vs := make([]media.SubtitleVariant, 0, len(variants))
		for _, v := range variants {
			vs = append(vs, media.SubtitleVariant{Ext: v.Ext, URL: v.URL, Name: v.Name})
		}
		out[code] = vs
	}
	return out
}
