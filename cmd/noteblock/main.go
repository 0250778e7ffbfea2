// Package main provides the bot entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/api/discordbot"
	"github.com/osa030/noteblock/internal/app/command"
	"github.com/osa030/noteblock/internal/app/filter"
	"github.com/osa030/noteblock/internal/app/nexttrack"
	"github.com/osa030/noteblock/internal/app/notification"
	"github.com/osa030/noteblock/internal/app/queue"
	"github.com/osa030/noteblock/internal/app/session"
	"github.com/osa030/noteblock/internal/infra/catalog"
	"github.com/osa030/noteblock/internal/infra/config"
	"github.com/osa030/noteblock/internal/infra/logger"
	"github.com/osa030/noteblock/internal/infra/transcode"
)

var (
	app        = kingpin.New("noteblock", "Minecraft music bot for Discord")
	configPath = app.Flag("config", "Path to config file").Default("config/noteblock.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	listTracksCmd  = app.Command("list-tracks", "List tracks in the music directory and exit")
	listFiltersCmd = app.Command("list-filters", "List available queue filters and exit")
)

func init() {
	app.Command("start", "Start the bot (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	cmdName := kingpin.MustParse(app.Parse(os.Args[1:]))

	if cmdName == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	// The token is only needed to connect
	load := config.Load
	if cmdName == listTracksCmd.FullCommand() {
		load = config.LoadOffline
	}
	cfg, cfgErr := load(*configPath)

	closer, err := logger.Init(loggerConfig(cfg))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	if cfgErr != nil {
		zlog.Fatal().Msgf("Failed to load config: path=%s error=%v", *configPath, cfgErr)
	}

	if cmdName == listTracksCmd.FullCommand() {
		printTracks(os.Stdout, newCatalog(cfg))
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Bot error: %+v", err)
		os.Exit(1)
	}
}

// loggerConfig builds the logger settings from the config file and command-line flags.
// Flags win over the file.
func loggerConfig(cfg *config.Config) logger.Config {
	lc := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if cfg != nil {
		lc.Level = cfg.Log.Level
		lc.MaxSizeMB = cfg.Log.MaxSizeMB
		lc.MaxBackups = cfg.Log.MaxBackups
		lc.MaxAgeDays = cfg.Log.MaxAgeDays
		if cfg.Log.File != "" {
			lc.Output = cfg.Log.File
			lc.File = cfg.Log.File
		}
	}
	if *verbose {
		lc.Level = "debug"
	}
	if *logfile != "" {
		lc.Output = *logfile
		lc.File = *logfile
	}
	return lc
}

// run executes the main bot logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.Playback.FFmpegPath); err != nil {
		zlog.Warn().Msgf("ffmpeg not found, playback will fail: path=%s", cfg.Playback.FFmpegPath)
	}

	cat := newCatalog(cfg)
	if !cat.HasMusicDir() {
		zlog.Warn().Msgf("Music directory is missing: dir=%s", cfg.Library.MusicDir)
	} else {
		zlog.Info().Msgf("Music directory: dir=%s tracks=%d", cfg.Library.MusicDir, cat.TrackCount())
	}

	filters, err := filter.NewChainFromSettings(cfg)
	if err != nil {
		return errors.Wrap(err, "invalid filter config")
	}
	store := queue.NewStore(cat, filters)

	b, err := discordbot.New(discordbot.Config{
		Token:    cfg.Discord.Token,
		GuildIDs: cfg.Discord.GuildIDs,
		Stream: transcode.StreamConfig{
			FFmpegPath:  cfg.Playback.FFmpegPath,
			BitrateKbps: cfg.Playback.BitrateKbps,
		},
	})
	if err != nil {
		return err
	}

	sessionMgr := session.NewManager(session.Dependencies{
		Catalog:  cat,
		Queue:    store,
		Chooser:  nexttrack.NewDefaultChain(store, cat, store, nil),
		NewVoice: b.NewVoice,
	})
	notifier := notification.NewManager(time.Duration(cfg.Notification.SendTimeoutMs) * time.Millisecond)

	dispatcher := command.NewDispatcher(cat, store, sessionMgr, notifier, command.Config{
		PageSize: cfg.MusicList.PageSize,
		Messages: cfg,
	})
	sessionMgr.SetEventHandler(dispatcher.HandlePlaybackEvent)

	ctx := context.Background()
	if err := b.Start(ctx, dispatcher); err != nil {
		return err
	}
	zlog.Info().Msg("Bot started")

	executeHooks(cfg.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	zlog.Info().Msg("Received shutdown signal...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dispatcher.AnnounceShutdown(shutdownCtx)

	// Leave voice channels before the gateway goes away
	sessionMgr.Close()
	notifier.Close()
	b.Close(shutdownCtx)

	zlog.Info().Msg("Bot stopped")

	executeHooks(cfg.Hooks.OnStopped, "on_stopped")

	return nil
}

func newCatalog(cfg *config.Config) *catalog.Catalog {
	return catalog.New(catalog.Config{
		MusicDir:     cfg.Library.MusicDir,
		MusicExt:     cfg.Library.MusicExt,
		RecipesDir:   cfg.Library.RecipesDir,
		RecipePrefix: cfg.Library.RecipePrefix,
	})
}

// printTracks prints the track IDs found in the music directory.
func printTracks(w io.Writer, cat *catalog.Catalog) {
	tracks := cat.ListTracks()
	fmt.Fprintf(w, "Tracks (%d):\n", len(tracks))
	for _, id := range tracks {
		fmt.Fprintf(w, "  %s\n", id)
	}
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	for _, name := range filter.RegisteredNames() {
		f := filter.GetRegistered()[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s, default: %s]\n", f.Name(), f.Description(), codes, enabledLabel(f.DefaultEnabled()))
	}
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
