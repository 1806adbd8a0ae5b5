package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ultratube/ultratube/internal/app"
	"github.com/ultratube/ultratube/internal/config"
	"github.com/ultratube/ultratube/internal/download"
	"github.com/ultratube/ultratube/internal/fileops"
	"github.com/ultratube/ultratube/internal/media"
	"github.com/ultratube/ultratube/internal/metadata"
	"github.com/ultratube/ultratube/pkg/utils/format"
	"github.com/ultratube/ultratube/pkg/ytdlp"
)

func main() {
	var (
		outputDir = flag.String("output", "", "output directory (overrides OUTPUT_DIR)")
		verbose   = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := ytdlp.New()
	client.Path = cfg.YtdlpPath
	client.LogCallback = func(stream, line string) {
		slog.Debug("yt-dlp", "stream", stream, "line", line)
	}

	if v, err := client.Version(ctx); err != nil {
		slog.Error("yt-dlp is not available; install it and ensure it is on PATH", "error", err)
		os.Exit(1)
	} else {
		slog.Debug("using yt-dlp", "version", v)
	}

	cache := metadata.NewCache(cfg.CacheTTL())
	meta := metadata.NewService(client, cache)
	downloads := download.NewService(client, meta)
	files := fileops.NewService()
	application := app.New(meta, downloads, files)

	session := &session{
		app:       application,
		metadata:  meta,
		cache:     cache,
		outputDir: cfg.OutputDir,
		in:        bufio.NewReader(os.Stdin),
	}
	session.run(ctx)
}

type session struct {
	app       *app.App
	metadata  *metadata.Service
	cache     *metadata.Cache
	outputDir string
	in        *bufio.Reader
}

// run is the interactive loop. A failed request reports its error and
// returns to the prompt; only EOF or an interrupt ends the session.
func (s *session) run(ctx context.Context) {
	fmt.Println("UltraTube - YouTube Media Downloader")
	fmt.Println()

	for {
		if ctx.Err() != nil {
			return
		}

		input, ok := s.prompt("Enter YouTube URL (or 'q' to quit): ")
		if !ok || input == "q" || input == "quit" {
			fmt.Println("Bye.")
			return
		}
		if input == "" {
			continue
		}

		if err := s.handleRequest(ctx, input); err != nil {
			fmt.Printf("Error: %v\n\n", err)
		}

		s.cache.Purge()
	}
}

func (s *session) handleRequest(ctx context.Context, input string) error {
	info, err := s.metadata.GetVideoInfo(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("\nTitle:    %s\n", info.Title)
	if info.Duration > 0 {
		fmt.Printf("Duration: %s\n", format.Duration(info.Duration))
	}
	fmt.Println()

	mode, ok := s.prompt("Download [a]udio or [v]ideo? ")
	if !ok {
		return nil
	}

	options := media.DefaultDownloadOptions(s.outputDir)
	options.AudioFormatID = s.chooseAudioTrack(ctx, input)
	options.SubtitleIDs = s.chooseSubtitles(ctx, input)

	var req *app.Request
	switch mode {
	case "a", "audio":
		req, err = s.app.DownloadAudio(ctx, input, options)
	case "v", "video", "":
		quality := s.chooseQuality()
		req, err = s.app.DownloadVideo(ctx, input, quality, options, media.ProcessOptions{OutputFormat: "mp4"})
	default:
		fmt.Println("Unknown choice, expected 'a' or 'v'.")
		return nil
	}
	if err != nil {
		return err
	}

	sizeNote := ""
	if fi, statErr := os.Stat(req.Output); statErr == nil {
		sizeNote = " (" + format.Size(fi.Size()) + ")"
	}
	fmt.Printf("\nDone: %s%s\n\n", req.Output, sizeNote)
	return nil
}

// chooseAudioTrack lists the available audio tracks and returns the chosen
// format ID, or "" for the extractor default.
func (s *session) chooseAudioTrack(ctx context.Context, input string) string {
	tracks, err := s.metadata.GetAudioTracks(ctx, input)
	if err != nil || len(tracks) <= 1 {
		return ""
	}

	fmt.Println("Available audio tracks:")
	for i, track := range tracks {
		fmt.Printf("  %2d. %-30s %-10s %s\n", i+1, track.Description, track.FormatID, format.Bitrate(track.Bitrate))
	}

	choice, ok := s.prompt("Select audio track (Enter for default): ")
	if !ok || choice == "" {
		return ""
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(tracks) {
		fmt.Println("Invalid selection, using default audio.")
		return ""
	}
	return tracks[idx-1].FormatID
}

// chooseSubtitles lists available subtitle tracks and returns the selected
// language codes.
func (s *session) chooseSubtitles(ctx context.Context, input string) []string {
	subs, err := s.metadata.GetAvailableSubtitles(ctx, input)
	if err != nil || len(subs) == 0 {
		return nil
	}

	fmt.Println("Available subtitles:")
	for i, sub := range subs {
		auto := ""
		if sub.IsAutoGenerated {
			auto = " (auto-generated)"
		}
		fmt.Printf("  %2d. %s [%s]%s\n", i+1, sub.Language, sub.LanguageCode, auto)
	}

	choice, ok := s.prompt("Select subtitles, comma-separated (Enter for none): ")
	if !ok || choice == "" {
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(choice, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || idx < 1 || idx > len(subs) {
			fmt.Printf("Skipping invalid selection %q.\n", strings.TrimSpace(part))
			continue
		}
		id := subs[idx-1].ID()
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	return ids
}

func (s *session) chooseQuality() string {
	labels := download.QualityLabels()
	fmt.Printf("Quality options: %s\n", strings.Join(labels, ", "))

	choice, ok := s.prompt("Select quality (Enter for highest): ")
	if !ok || choice == "" {
		return "highest"
	}
	for _, l := range labels {
		if choice == l {
			return choice
		}
	}
	fmt.Println("Unknown quality, using highest.")
	return "highest"
}

func (s *session) prompt(msg string) (string, bool) {
	fmt.Print(msg)
	line, err := s.in.ReadString('\n')
	if err != nil {
		return strings.TrimSpace(line), false
	}
	return strings.TrimSpace(line), true
}
