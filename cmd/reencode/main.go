// Package main provides the batch re-encode tool. It converts every track of the
// music directory to one fixed profile so they stream without surprises.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/osa030/noteblock/internal/infra/config"
	"github.com/osa030/noteblock/internal/infra/logger"
	"github.com/osa030/noteblock/internal/infra/transcode"
)

var (
	app        = kingpin.New("reencode", "Re-encode the music directory with ffmpeg")
	configPath = app.Flag("config", "Path to config file").Default("config/noteblock.yaml").String()
	musicDir   = app.Flag("music-dir", "Directory to read tracks from (overrides config)").String()
	outputDir  = app.Flag("output-dir", "Directory to write re-encoded tracks to (overrides config)").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
)

func main() {
	_ = godotenv.Load()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "info"
	if *verbose {
		level = "debug"
	}
	closer, err := logger.Init(logger.Config{Output: "stderr", Level: level})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	cfg, err := config.LoadOffline(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: path=%s error=%v", *configPath, err)
	}

	rc := transcode.ReencodeConfig{
		FFmpegPath: cfg.Playback.FFmpegPath,
		MusicDir:   cfg.Library.MusicDir,
		OutputDir:  cfg.Reencode.OutputDir,
		Ext:        cfg.Library.MusicExt,
		Codec:      cfg.Reencode.Codec,
		SampleRate: cfg.Reencode.SampleRate,
		Channels:   cfg.Reencode.Channels,
	}
	if *musicDir != "" {
		rc.MusicDir = *musicDir
	}
	if *outputDir != "" {
		rc.OutputDir = *outputDir
	}

	if err := run(rc); err != nil {
		zlog.Error().Msgf("Re-encode failed: %v", err)
		os.Exit(1)
	}
}

func run(rc transcode.ReencodeConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := transcode.NewReencoder(rc, nil)
	files, err := r.Files()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		zlog.Warn().Msgf("No tracks to re-encode: dir=%s ext=%s", rc.MusicDir, rc.Ext)
		return nil
	}

	zlog.Info().Msgf("Re-encoding %d tracks: from=%s to=%s codec=%s", len(files), rc.MusicDir, rc.OutputDir, rc.Codec)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Re-encoding"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
	)

	done, err := r.Run(ctx, files, func(name string) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	zlog.Info().Msgf("Re-encode finished: files=%d output=%s", done, rc.OutputDir)
	return nil
}
