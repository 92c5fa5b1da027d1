// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrDiscordTokenNotSet is returned when DISCORD_TOKEN is missing or empty.
var ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	DiscordToken string
	YtdlpPath    string
	FfmpegPath   string
	IdleTimeout  time.Duration
	LogLevel     string
}

// Load reads the bot configuration. A .env file is applied when present but
// is not required; real environment variables take precedence either way.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, ErrDiscordTokenNotSet
	}

	cfg := &Config{
		DiscordToken: token,
		YtdlpPath:    toolPath("YTDLP_PATH", "yt-dlp"),
		FfmpegPath:   toolPath("FFMPEG_PATH", "ffmpeg"),
		IdleTimeout:  5 * time.Minute,
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("IDLE_TIMEOUT is not a valid duration: " + v)
		}
		cfg.IdleTimeout = d
	}

	return cfg, nil
}

// LoadTools resolves only the external tool paths. Used by commands that run
// without a Discord token.
func LoadTools() *Config {
	_ = godotenv.Load()
	return &Config{
		YtdlpPath:  toolPath("YTDLP_PATH", "yt-dlp"),
		FfmpegPath: toolPath("FFMPEG_PATH", "ffmpeg"),
	}
}

// toolPath prefers an explicit env override, then a PATH lookup, then the
// bare name so the error surfaces at spawn time with a useful message.
func toolPath(envKey, name string) string {
	if p := os.Getenv(envKey); p != "" {
		return p
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	return name
}

// NewLogger builds the process logger. LOG_LEVEL accepts zap's level names;
// anything unparseable falls back to info.
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil && level != "" {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
