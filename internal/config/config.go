// Package config loads service settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"ADDR" envDefault:":8080"`
	// ArtifactDir is where generated codes are persisted.
	ArtifactDir string `env:"ARTIFACT_DIR" envDefault:"artifacts"`
	// PreviewCacheSize bounds the in-memory preview cache entries.
	PreviewCacheSize int `env:"PREVIEW_CACHE_SIZE" envDefault:"128"`
	// MaxCanvasPixels caps raster export area; 0 disables the cap.
	MaxCanvasPixels int `env:"MAX_CANVAS_PIXELS" envDefault:"67108864"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.PreviewCacheSize < 1 {
		return Config{}, fmt.Errorf("config: PREVIEW_CACHE_SIZE must be positive, got %d", cfg.PreviewCacheSize)
	}
	if cfg.MaxCanvasPixels < 0 {
		return Config{}, fmt.Errorf("config: MAX_CANVAS_PIXELS must not be negative, got %d", cfg.MaxCanvasPixels)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown LOG_LEVEL %q", c.LogLevel)
	}
}
