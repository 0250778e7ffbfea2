// Package transcode runs ffmpeg: live Opus streams for voice playback and the
// batch re-encode of the music directory.
package transcode

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonas747/ogg"
	zlog "github.com/rs/zerolog/log"
)

// ErrStopped is reported to onEnd when a stream is closed before it finished.
var ErrStopped = errors.New("stream stopped")

// frameWait is how long ProvideOpusFrame waits for ffmpeg before sending silence.
const frameWait = 100 * time.Millisecond

// StreamConfig configures live streaming.
type StreamConfig struct {
	FFmpegPath  string
	BitrateKbps int
}

// StreamArgs returns the ffmpeg arguments that turn path into 48kHz stereo Ogg/Opus on stdout.
func StreamArgs(path string, bitrateKbps int) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-f", "ogg",
		"-c:a", "libopus",
		"-ar", "48000",
		"-ac", "2",
		"-b:a", strconv.Itoa(bitrateKbps) + "k",
		"pipe:1",
	}
}

// Stream is one ffmpeg process whose Opus packets are handed out frame by frame.
// It satisfies the voice connection's frame provider contract: ProvideOpusFrame returns
// nil, nil for silence and io.EOF once the track is over.
type Stream struct {
	path   string
	frames chan []byte
	stop   chan struct{}
	paused atomic.Bool

	cancel context.CancelFunc
	stderr bytes.Buffer

	errMu sync.Mutex
	err   error

	endOnce sync.Once
	onEnd   func(error)
}

// StartStream spawns ffmpeg for path. onEnd is called once: with nil after the last
// frame was handed out, with ErrStopped after Close, or with the ffmpeg error.
func StartStream(ctx context.Context, cfg StreamConfig, path string, onEnd func(error)) (*Stream, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, cfg.FFmpegPath, StreamArgs(path, cfg.BitrateKbps)...)

	s := &Stream{
		path:   path,
		frames: make(chan []byte, 64),
		stop:   make(chan struct{}),
		cancel: cancel,
		onEnd:  onEnd,
	}
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to open ffmpeg stdout")
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.Wrapf(err, "failed to start %s", cfg.FFmpegPath)
	}
	zlog.Debug().Msgf("transcode: ffmpeg started: pid=%d file=%s", cmd.Process.Pid, path)

	go s.demux(cmd, stdout)
	return s, nil
}

// demux reads Ogg pages from ffmpeg and queues the Opus packets.
func (s *Stream) demux(cmd *exec.Cmd, stdout io.Reader) {
	defer close(s.frames)

	decoder := ogg.NewPacketDecoder(ogg.NewDecoder(stdout))
	for {
		packet, _, err := decoder.Decode()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.setErr(errors.Wrap(err, "failed to demux ogg"))
			}
			break
		}
		if isOpusHeader(packet) {
			continue
		}

		frame := make([]byte, len(packet))
		copy(frame, packet)
		select {
		case s.frames <- frame:
		case <-s.stop:
			// Drain so ffmpeg is not blocked on a full pipe while it is killed.
			_, _ = io.Copy(io.Discard, stdout)
			_ = cmd.Wait()
			return
		}
	}

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(s.stderr.String())
		s.setErr(errors.Wrapf(err, "ffmpeg failed: file=%s stderr=%q", s.path, msg))
	}
}

// ProvideOpusFrame returns the next Opus packet.
func (s *Stream) ProvideOpusFrame() ([]byte, error) {
	if s.paused.Load() {
		return nil, nil
	}

	select {
	case frame, ok := <-s.frames:
		if !ok {
			s.finish(s.Err())
			return nil, io.EOF
		}
		return frame, nil
	case <-s.stop:
		return nil, io.EOF
	case <-time.After(frameWait):
		return nil, nil
	}
}

// Close kills ffmpeg. Streams that already ended are unaffected.
func (s *Stream) Close() {
	s.endOnce.Do(func() {
		close(s.stop)
		s.cancel()
		if s.onEnd != nil {
			s.onEnd(ErrStopped)
		}
	})
}

// Pause makes the stream yield silence without consuming packets.
func (s *Stream) Pause() { s.paused.Store(true) }

// Resume continues after Pause.
func (s *Stream) Resume() { s.paused.Store(false) }

// Paused reports whether the stream is paused.
func (s *Stream) Paused() bool { return s.paused.Load() }

// Ended reports whether the stream finished or was closed.
func (s *Stream) Ended() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// Err returns the ffmpeg or demux error, if any.
func (s *Stream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Stream) setErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// finish reports natural completion and releases the process.
func (s *Stream) finish(err error) {
	s.endOnce.Do(func() {
		close(s.stop)
		s.cancel()
		if s.onEnd != nil {
			s.onEnd(err)
		}
	})
}

func isOpusHeader(packet []byte) bool {
	return bytes.HasPrefix(packet, []byte("OpusHead")) || bytes.HasPrefix(packet, []byte("OpusTags"))
}
