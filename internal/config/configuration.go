package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// Directory downloads are written to.
	OutputDir string `mapstructure:"OUTPUT_DIR" validate:"required"`

	// Metadata cache time-to-live in seconds.
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS" validate:"gte=1"`

	// Path to the yt-dlp executable; resolved via PATH when bare.
	YtdlpPath string `mapstructure:"YTDLP_PATH" validate:"required"`
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" {
			viper.BindEnv(tag)
		}
	}
}

func LoadConfig() (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("OUTPUT_DIR", "downloads")
	viper.SetDefault("CACHE_TTL_SECONDS", 3600)
	viper.SetDefault("YTDLP_PATH", "yt-dlp")

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Debug("loaded configuration", "output_dir", cfg.OutputDir, "cache_ttl_seconds", cfg.CacheTTLSeconds, "ytdlp_path", cfg.YtdlpPath)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
