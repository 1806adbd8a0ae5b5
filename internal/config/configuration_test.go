package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, "downloads", cfg.OutputDir)
	require.Equal(t, 3600, cfg.CacheTTLSeconds)
	require.Equal(t, "yt-dlp", cfg.YtdlpPath)
	require.Equal(t, time.Hour, cfg.CacheTTL())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("OUTPUT_DIR", "/tmp/media")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("YTDLP_PATH", "/opt/yt-dlp/yt-dlp")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "/tmp/media", cfg.OutputDir)
	require.Equal(t, 60*time.Second, cfg.CacheTTL())
	require.Equal(t, "/opt/yt-dlp/yt-dlp", cfg.YtdlpPath)
}

func TestLoadConfig_ValidationError(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CACHE_TTL_SECONDS", "0")

	cfg, err := LoadConfig()
	require.Error(t, err)
	require.Nil(t, cfg)
}
