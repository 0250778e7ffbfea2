package discordbot

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/voice"
	"github.com/disgoorg/snowflake/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/playback"
	"github.com/osa030/noteblock/internal/infra/transcode"
)

// voiceSession plays files into one guild's voice connection.
type voiceSession struct {
	guildID snowflake.ID
	client  *bot.Client
	stream  transcode.StreamConfig

	mu      sync.Mutex
	conn    voice.Conn
	current *transcode.Stream
}

var _ playback.VoiceSession = (*voiceSession)(nil)

// NewVoice creates the voice session for a guild. It satisfies session.VoiceFactory.
func (b *Bot) NewVoice(guildID string) (playback.VoiceSession, error) {
	id, err := snowflake.Parse(guildID)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid guild id %q", guildID)
	}
	return &voiceSession{guildID: id, client: b.client, stream: b.config.Stream}, nil
}

func (v *voiceSession) Connect(ctx context.Context, channelID string) error {
	id, err := snowflake.Parse(channelID)
	if err != nil {
		return errors.Wrapf(err, "invalid channel id %q", channelID)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.conn == nil {
		v.conn = v.client.VoiceManager.CreateConn(v.guildID)
	}
	if err := v.conn.Open(ctx, id, false, true); err != nil {
		v.conn.Close(ctx)
		v.conn = nil
		return errors.Wrapf(err, "failed to join voice channel %s", channelID)
	}
	zlog.Info().Msgf("voice connected: guild=%s channel=%s", v.guildID, id)
	return nil
}

// Play starts streaming path. The stream outlives ctx; it ends with the file or Stop.
func (v *voiceSession) Play(ctx context.Context, path string, onDone func(err error)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.conn == nil {
		return playback.ErrNotConnected
	}
	v.closeStreamLocked()

	stream, err := transcode.StartStream(context.WithoutCancel(ctx), v.stream, path, onDone)
	if err != nil {
		return err
	}
	v.current = stream
	v.conn.SetOpusFrameProvider(stream)
	if err := v.conn.SetSpeaking(ctx, voice.SpeakingFlagMicrophone); err != nil {
		zlog.Warn().Msgf("failed to set speaking: guild=%s error=%v", v.guildID, err)
	}
	return nil
}

func (v *voiceSession) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeStreamLocked()
}

func (v *voiceSession) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current != nil {
		v.current.Pause()
	}
}

func (v *voiceSession) Resume() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current != nil {
		v.current.Resume()
	}
}

func (v *voiceSession) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current != nil && !v.current.Ended() && !v.current.Paused()
}

func (v *voiceSession) Disconnect(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closeStreamLocked()
	if v.conn == nil {
		return nil
	}
	v.conn.Close(ctx)
	v.conn = nil
	zlog.Info().Msgf("voice disconnected: guild=%s", v.guildID)
	return nil
}

// closeStreamLocked kills the current ffmpeg process. Its onDone reports transcode.ErrStopped.
func (v *voiceSession) closeStreamLocked() {
	if v.current == nil {
		return
	}
	if v.conn != nil {
		v.conn.SetOpusFrameProvider(nil)
	}
	v.current.Close()
	v.current = nil
}
