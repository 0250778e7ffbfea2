// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Discord      DiscordConfig      `yaml:"discord"`
	Library      LibraryConfig      `yaml:"library"`
	Playback     PlaybackConfig     `yaml:"playback"`
	Queue        QueueConfig        `yaml:"queue"`
	MusicList    MusicListConfig    `yaml:"musiclist"`
	Notification NotificationConfig `yaml:"notification"`
	Reencode     ReencodeConfig     `yaml:"reencode"`
	Log          LogConfig          `yaml:"log"`
	Messages     MessagesConfig     `yaml:"messages"`
	Hooks        HooksConfig        `yaml:"hooks"`
}

// DiscordConfig represents Discord connection configuration.
type DiscordConfig struct {
	Token    string   `yaml:"token" validate:"required"`
	GuildIDs []string `yaml:"guild_ids" validate:"dive,numeric"`
}

// LibraryConfig represents where tracks and recipes are found.
type LibraryConfig struct {
	MusicDir     string `yaml:"music_dir" default:"music"`
	MusicExt     string `yaml:"music_ext" default:".mp3" validate:"startswith=."`
	RecipesDir   string `yaml:"recipes_dir" default:"recipes"`
	RecipePrefix string `yaml:"recipe_prefix" default:"craft_"`
}

// PlaybackConfig represents audio streaming configuration.
type PlaybackConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path" default:"ffmpeg"`
	BitrateKbps int    `yaml:"bitrate_kbps" default:"128" validate:"gte=8,lte=512"`
}

// QueueConfig represents queue configuration.
type QueueConfig struct {
	Filters map[string]FilterConfig `yaml:"filters"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MusicListConfig represents the musiclist command configuration.
type MusicListConfig struct {
	PageSize int `yaml:"page_size" default:"15" validate:"gte=1,lte=25"`
}

// NotificationConfig represents announcement configuration.
type NotificationConfig struct {
	SendTimeoutMs int `yaml:"send_timeout_ms" default:"5000" validate:"gte=100,lte=60000"`
}

// ReencodeConfig represents the batch re-encode profile.
type ReencodeConfig struct {
	OutputDir  string `yaml:"output_dir" default:"music_reencoded"`
	Codec      string `yaml:"codec" default:"libmp3lame"`
	SampleRate int    `yaml:"sample_rate" default:"44100" validate:"gte=8000"`
	Channels   int    `yaml:"channels" default:"2" validate:"gte=1,lte=2"`
}

// LogConfig represents log file configuration.
type LogConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" default:"10" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" default:"3" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" default:"28" validate:"gte=0"`
}

// MessagesConfig represents user-facing messages for queue filter rejections.
type MessagesConfig struct {
	QueueFull      string `yaml:"queue_full" default:"The queue is full! Remove a track or clear the queue first."`
	DuplicateTrack string `yaml:"duplicate_track" default:"That track is already in the queue."`
	DefaultError   string `yaml:"default_error" default:"That track can't be added to the queue right now."`
}

// HooksConfig represents shell commands run around the bot's lifetime.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// Load loads configuration from a YAML file.
// A missing file is not an error: defaults and environment variables are used instead.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}

// LoadOffline loads configuration for tools that never connect to Discord,
// so the token is not required.
func LoadOffline(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := validator.New().StructExcept(cfg, "Discord.Token"); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}

func load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment-only configuration
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("NOTEBLOCK_MUSIC_DIR"); v != "" {
		c.Library.MusicDir = v
	}
	if v := os.Getenv("NOTEBLOCK_RECIPES_DIR"); v != "" {
		c.Library.RecipesDir = v
	}
	if v := os.Getenv("NOTEBLOCK_FFMPEG"); v != "" {
		c.Playback.FFmpegPath = v
	}
}

// GetMessage returns the message for the given filter rejection code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "queue_full":
		return c.Messages.QueueFull
	case "duplicate_track":
		return c.Messages.DuplicateTrack
	default:
		return c.Messages.DefaultError
	}
}

// IsFilterEnabled checks if a filter is enabled.
// Filters without an entry fall back to their built-in default.
func (c *Config) IsFilterEnabled(filterName string, fallback bool) bool {
	if f, ok := c.Queue.Filters[filterName]; ok {
		return f.Enabled
	}
	return fallback
}

// GetFilterSettings returns the settings for a filter.
func (c *Config) GetFilterSettings(filterName string) map[string]any {
	if f, ok := c.Queue.Filters[filterName]; ok && f.Settings != nil {
		return f.Settings
	}
	return map[string]any{}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
