package transcode

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Runner runs one external command to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec and folds stderr into the error.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ReencodeConfig is the target profile of the batch.
type ReencodeConfig struct {
	FFmpegPath string
	MusicDir   string
	OutputDir  string
	Ext        string // Only files with this extension are converted
	Codec      string
	SampleRate int
	Channels   int
}

// Reencoder converts every track of a directory to one fixed profile.
type Reencoder struct {
	config ReencodeConfig
	runner Runner
}

// NewReencoder creates a new reencoder. A nil runner uses ExecRunner.
func NewReencoder(cfg ReencodeConfig, runner Runner) *Reencoder {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Reencoder{config: cfg, runner: runner}
}

// Files returns the file names to convert, sorted.
func (r *Reencoder) Files() ([]string, error) {
	entries, err := os.ReadDir(r.config.MusicDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read music dir %s", r.config.MusicDir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), r.config.Ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Args returns the ffmpeg arguments converting in to out. Existing outputs are overwritten.
func (r *Reencoder) Args(in, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-acodec", r.config.Codec,
		"-ar", strconv.Itoa(r.config.SampleRate),
		"-ac", strconv.Itoa(r.config.Channels),
		out,
	}
}

// Run converts every file, one ffmpeg process each, and stops at the first failure.
// onDone is called after each converted file. It returns how many files were converted.
func (r *Reencoder) Run(ctx context.Context, files []string, onDone func(name string)) (int, error) {
	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "failed to create output dir %s", r.config.OutputDir)
	}

	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return i, errors.Wrap(err, "re-encode cancelled")
		}

		in := filepath.Join(r.config.MusicDir, name)
		out := filepath.Join(r.config.OutputDir, name)
		if err := r.runner.Run(ctx, r.config.FFmpegPath, r.Args(in, out)...); err != nil {
			return i, errors.Wrapf(err, "failed to re-encode %s", name)
		}

		zlog.Debug().Msgf("re-encoded: file=%s", name)
		if onDone != nil {
			onDone(name)
		}
	}
	return len(files), nil
}
