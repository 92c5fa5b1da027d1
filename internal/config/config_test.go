package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrDiscordTokenNotSet)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("IDLE_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.DiscordToken)
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout)
	assert.NotEmpty(t, cfg.YtdlpPath)
	assert.NotEmpty(t, cfg.FfmpegPath)
}

func TestLoadIdleTimeoutOverride(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("IDLE_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
}

func TestLoadRejectsBadIdleTimeout(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("IDLE_TIMEOUT", "five minutes")

	_, err := Load()
	assert.Error(t, err)
}

func TestToolPathPrefersEnvOverride(t *testing.T) {
	t.Setenv("YTDLP_PATH", "/opt/tools/yt-dlp")
	assert.Equal(t, "/opt/tools/yt-dlp", toolPath("YTDLP_PATH", "yt-dlp"))
}

func TestToolPathFallsBackToName(t *testing.T) {
	t.Setenv("YTDLP_PATH", "")
	got := toolPath("YTDLP_PATH", "definitely-not-a-real-binary-name")
	assert.Equal(t, "definitely-not-a-real-binary-name", got)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "warn", "bogus"} {
		logger, err := NewLogger(level)
		require.NoError(t, err, "level=%q", level)
		require.NotNil(t, logger)
	}
}
