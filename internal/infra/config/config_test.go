package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg := Config{Discord: DiscordConfig{Token: "test-token"}}
	require.NoError(t, defaults.Set(&cfg))
	return cfg
}

func TestConfig_Validate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing discord token",
			mutate:  func(c *Config) { c.Discord.Token = "" },
			wantErr: true,
			errMsg:  "Token",
		},
		{
			name:    "non numeric guild id",
			mutate:  func(c *Config) { c.Discord.GuildIDs = []string{"abc"} },
			wantErr: true,
			errMsg:  "GuildIDs",
		},
		{
			name:    "music extension without dot",
			mutate:  func(c *Config) { c.Library.MusicExt = "mp3" },
			wantErr: true,
			errMsg:  "MusicExt",
		},
		{
			name:    "page size above platform limit",
			mutate:  func(c *Config) { c.MusicList.PageSize = 30 },
			wantErr: true,
			errMsg:  "PageSize",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
			errMsg:  "Level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	t.Setenv("NOTEBLOCK_MUSIC_DIR", "")
	t.Setenv("NOTEBLOCK_RECIPES_DIR", "")
	t.Setenv("NOTEBLOCK_FFMPEG", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.Equal(t, "music", cfg.Library.MusicDir)
	assert.Equal(t, ".mp3", cfg.Library.MusicExt)
	assert.Equal(t, "recipes", cfg.Library.RecipesDir)
	assert.Equal(t, "craft_", cfg.Library.RecipePrefix)
	assert.Equal(t, 15, cfg.MusicList.PageSize)
	assert.Equal(t, "libmp3lame", cfg.Reencode.Codec)
	assert.Equal(t, 44100, cfg.Reencode.SampleRate)
	assert.Equal(t, 2, cfg.Reencode.Channels)
	assert.Equal(t, "ffmpeg", cfg.Playback.FFmpegPath)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token")
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noteblock.yaml")
	content := `
discord:
  token: file-token
  guild_ids: ["123456789012345678"]
library:
  music_dir: /srv/music
musiclist:
  page_size: 10
queue:
  filters:
    queue_limit_filter:
      enabled: true
      settings:
        max_size: 5
    duplicate_track_filter:
      enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("NOTEBLOCK_MUSIC_DIR", "/override/music")
	t.Setenv("NOTEBLOCK_RECIPES_DIR", "")
	t.Setenv("NOTEBLOCK_FFMPEG", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Discord.Token)
	assert.Equal(t, []string{"123456789012345678"}, cfg.Discord.GuildIDs)
	assert.Equal(t, "/override/music", cfg.Library.MusicDir)
	assert.Equal(t, 10, cfg.MusicList.PageSize)
	assert.True(t, cfg.IsFilterEnabled("duplicate_track_filter", false))
	assert.Equal(t, 5, cfg.GetFilterSettings("queue_limit_filter")["max_size"])
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discord: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_IsFilterEnabled(t *testing.T) {
	cfg := &Config{Queue: QueueConfig{Filters: map[string]FilterConfig{
		"queue_limit_filter": {Enabled: false},
	}}}

	assert.False(t, cfg.IsFilterEnabled("queue_limit_filter", true))
	assert.True(t, cfg.IsFilterEnabled("unknown_filter", true))
	assert.False(t, cfg.IsFilterEnabled("unknown_filter", false))
	assert.Empty(t, cfg.GetFilterSettings("unknown_filter"))
}

func TestConfig_GetMessage(t *testing.T) {
	cfg := validConfig(t)

	assert.Equal(t, cfg.Messages.QueueFull, cfg.GetMessage("queue_full"))
	assert.Equal(t, cfg.Messages.DuplicateTrack, cfg.GetMessage("duplicate_track"))
	assert.Equal(t, cfg.Messages.DefaultError, cfg.GetMessage("something_else"))
}

func TestLoadOffline_TokenNotRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("NOTEBLOCK_MUSIC_DIR", "")

	cfg, err := LoadOffline(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Discord.Token)
	assert.Equal(t, "music_reencoded", cfg.Reencode.OutputDir)
}

func TestLoadOffline_StillValidatesOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noteblock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reencode:\n  channels: 6\n"), 0o644))
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadOffline(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Channels")
}
