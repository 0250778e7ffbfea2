package command

import (
	"context"
	"fmt"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/playback"
	"github.com/osa030/noteblock/internal/domain/chat"
)

// HandlePlaybackEvent posts playback events to the guild's announce channel.
// Tracks started by /play are answered by the command itself and not announced again.
func (d *Dispatcher) HandlePlaybackEvent(ctx context.Context, e playback.Event) {
	msg, ok := announcement(e)
	if !ok {
		return
	}
	if err := d.notifier.Send(ctx, e.GuildID, msg); err != nil {
		zlog.Warn().Msgf("announce failed: guild=%s type=%s error=%v", e.GuildID, e.Type, err)
	}
}

func announcement(e playback.Event) (chat.Message, bool) {
	switch e.Type {
	case playback.EventTrackStarted:
		if e.Reason == playback.ReasonRequested || e.Track == nil {
			return chat.Message{}, false
		}
		embed := &chat.Embed{
			Title: fmt.Sprintf(titleNowPlay, e.Track.Name),
			Color: chat.ColorBlue,
		}
		if e.Track.HasTags() {
			embed.Description = e.Track.Credits()
		}
		return chat.Message{Embed: embed}, true

	case playback.EventTrackMissing:
		return chat.Message{Content: fmt.Sprintf(msgTrackMissing, e.TrackID)}, true

	case playback.EventAllMissing:
		return chat.Message{Content: msgAllMissing}, true

	default:
		return chat.Message{}, false
	}
}
