package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrDiscordTokenNotSet)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Player.SavePreviousSongs)
	assert.Equal(t, 1, cfg.Player.SearchSongs)
	assert.Equal(t, 50, cfg.Player.DefaultVolume)
}

func TestLoadConfigPlayerOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PLAYER_NSFW", "true")
	t.Setenv("PLAYER_LEAVE_ON_FINISH", "true")
	t.Setenv("PLAYER_SEARCH_SONGS", "5")
	t.Setenv("PLAYER_SEARCH_COOLDOWN", "30")
	t.Setenv("PLAYER_DEFAULT_VOLUME", "75")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Player.NSFW)
	assert.True(t, cfg.Player.LeaveOnFinish)
	assert.Equal(t, 5, cfg.Player.SearchSongs)
	assert.Equal(t, 30*time.Second, cfg.Player.SearchCooldown)
	assert.Equal(t, 75, cfg.Player.DefaultVolume)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PLAYER_NSFW", "kinda")
	t.Setenv("PLAYER_DEFAULT_VOLUME", "loud")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Player.NSFW)
	assert.Equal(t, 50, cfg.Player.DefaultVolume)
}
