// Package videoid normalizes user input (URLs or bare IDs) to canonical
// YouTube video identifiers.
package videoid

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Hosts treated as YouTube. Keep this intentionally conservative: only
// hosts that are truly the same source website from a user perspective.
var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// YouTube video IDs are 11 characters of [A-Za-z0-9_-].
var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ErrNotVideo is returned when the input cannot be resolved to a video ID.
var ErrNotVideo = errors.New("not a youtube url or video id")

// IsVideoID reports whether s looks like a bare YouTube video ID.
func IsVideoID(s string) bool {
	return videoIDRe.MatchString(s)
}

// Normalize resolves a user-provided URL or bare ID to the canonical video
// identifier used as the cache key.
func Normalize(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("missing url or video id")
	}

	if IsVideoID(input) {
		return input, nil
	}

	return ExtractVideoID(input)
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return "https://youtube.com/watch?v=" + url.QueryEscape(id)
}

// VideoUUID returns a deterministic UUIDv5 for a video ID, used for stable
// temp-file naming within a session.
func VideoUUID(videoID string) uuid.UUID {
	ns := uuid.NewSHA1(uuid.NameSpaceDNS, []byte("youtube.com"))
	return uuid.NewSHA1(ns, []byte(strings.TrimSpace(videoID)))
}

// ExtractVideoID extracts the YouTube video ID from a URL. Returns
// ErrNotVideo when the input is not a recognizable YouTube video URL.
func ExtractVideoID(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", ErrNotVideo
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + urlStr)
		if err != nil {
			return "", err
		}
	}

	host := normalizeHost(u.Host)
	if !youtubeHosts[host] {
		return "", ErrNotVideo
	}

	// youtu.be shortlinks carry the ID as the first path segment.
	if host == "youtu.be" {
		if id := firstPathSegment(u.Path); id != "" {
			return id, nil
		}
		return "", ErrNotVideo
	}

	// /watch?v= format.
	if q := u.Query().Get("v"); q != "" {
		return q, nil
	}

	// Path-based formats.
	for _, prefix := range []string{"/embed/", "/v/", "/shorts/", "/live/"} {
		if strings.HasPrefix(u.Path, prefix) {
			if id := firstPathSegment(strings.TrimPrefix(u.Path, prefix)); id != "" {
				return id, nil
			}
		}
	}

	return "", ErrNotVideo
}

func normalizeHost(hostport string) string {
	h := strings.TrimSpace(strings.ToLower(hostport))
	if h == "" {
		return ""
	}
	// url.URL.Host may include a port.
	if strings.Contains(h, ":") {
		if parsed, err := url.Parse("//" + h); err == nil && parsed.Hostname() != "" {
			h = parsed.Hostname()
		}
	}
	return strings.TrimSuffix(h, ".")
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	seg, _, _ := strings.Cut(p, "/")
	return strings.TrimSpace(seg)
}
