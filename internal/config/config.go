package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/latoulicious/Yotei/pkg/player"
)

type Config struct {
	DiscordToken string
	LogLevel     string
	LogFormat    string
	Player       *player.Options
}

var ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file; a missing file is fine
	// when the variables come from the environment itself.
	_ = godotenv.Load()

	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		return nil, ErrDiscordTokenNotSet
	}

	opts := player.DefaultOptions()
	opts.EmitNewSongOnly = envBool("PLAYER_EMIT_NEW_SONG_ONLY", opts.EmitNewSongOnly)
	opts.SavePreviousSongs = envBool("PLAYER_SAVE_PREVIOUS_SONGS", opts.SavePreviousSongs)
	opts.LeaveOnFinish = envBool("PLAYER_LEAVE_ON_FINISH", opts.LeaveOnFinish)
	opts.LeaveOnStop = envBool("PLAYER_LEAVE_ON_STOP", opts.LeaveOnStop)
	opts.NSFW = envBool("PLAYER_NSFW", opts.NSFW)
	opts.SearchSongs = envInt("PLAYER_SEARCH_SONGS", opts.SearchSongs)
	opts.DefaultVolume = envInt("PLAYER_DEFAULT_VOLUME", opts.DefaultVolume)
	if secs := envInt("PLAYER_SEARCH_COOLDOWN", 0); secs > 0 {
		opts.SearchCooldown = time.Duration(secs) * time.Second
	}

	return &Config{
		DiscordToken: discordToken,
		LogLevel:     envString("LOG_LEVEL", "info"),
		LogFormat:    envString("LOG_FORMAT", "text"),
		Player:       opts,
	}, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
