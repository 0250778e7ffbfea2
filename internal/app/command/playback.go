package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/noteblock/internal/app/playback"
	"github.com/osa030/noteblock/internal/app/session"
	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/domain/chat"
)

// validatePlay rejects a play request that cannot start: the caller is not in voice
// or the track is unknown. It runs before a session exists so an unknown track never
// opens a voice connection.
func (d *Dispatcher) validatePlay(req Request) error {
	if err := req.Listener.RequireVoice(); err != nil {
		return failWith(err, notice(msgNeedVoice, false))
	}
	if id := req.Option(optTrack); !d.catalog.HasTrack(id) {
		return trackNotFound(id)
	}
	return nil
}

func (d *Dispatcher) play(ctx context.Context, req Request) (chat.Message, error) {
	id := req.Option(optTrack)

	if err := d.validatePlay(req); err != nil {
		return chat.Message{}, err
	}

	s, err := d.sessions.GetOrCreate(req.Listener.GuildID)
	if err != nil {
		return chat.Message{}, err
	}
	if req.Announce != nil {
		d.notifier.Subscribe(req.Listener.GuildID, req.Announce)
	}

	t, err := s.Controller.Play(ctx, id, req.Listener.VoiceChannelID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return chat.Message{}, trackNotFound(id)
		}
		return chat.Message{}, err
	}

	embed := &chat.Embed{
		Title: fmt.Sprintf(titleNowPlay, t.Name),
		Color: chat.ColorBlue,
	}
	if t.HasTags() {
		embed.Description = t.Credits()
	}
	return chat.Message{Embed: embed}, nil
}

func (d *Dispatcher) pause(ctx context.Context, req Request) (chat.Message, error) {
	s, err := d.sessionFor(req)
	if err == nil {
		err = s.Controller.Pause()
	}
	if err != nil {
		return chat.Message{}, failWith(markEmpty(err), notice(msgNothingToPause, false))
	}
	return chat.Message{Embed: &chat.Embed{Title: titlePaused, Color: chat.ColorOrange}}, nil
}

func (d *Dispatcher) resume(ctx context.Context, req Request) (chat.Message, error) {
	s, err := d.sessionFor(req)
	if err == nil {
		err = s.Controller.Resume()
	}
	if err != nil {
		return chat.Message{}, failWith(markEmpty(err), notice(msgNothingToResume, false))
	}
	return chat.Message{Embed: &chat.Embed{Title: titleResumed, Color: chat.ColorGreen}}, nil
}

func (d *Dispatcher) next(ctx context.Context, req Request) (chat.Message, error) {
	s, err := d.sessionFor(req)
	if err == nil {
		err = s.Controller.Skip(ctx)
	}
	// An exhausted chain of missing files was already announced; the skip itself happened.
	if err != nil && !errors.Is(err, playback.ErrAllMissing) {
		if errors.Is(err, session.ErrNoSession) || errors.Is(err, playback.ErrNoTrack) {
			return chat.Message{}, failWith(markEmpty(err), notice(msgNothingToSkip, true))
		}
		return chat.Message{}, err
	}
	return chat.Message{Embed: &chat.Embed{Title: titleSkipping, Color: chat.ColorYellow}}, nil
}

func (d *Dispatcher) stop(ctx context.Context, req Request) (chat.Message, error) {
	s, err := d.sessionFor(req)
	if err == nil {
		err = s.Controller.Stop(ctx)
	}
	if errors.Is(err, session.ErrNoSession) {
		return chat.Message{}, failWith(markEmpty(err), notice(msgNotInVoice, false))
	}

	// A session that never connected (a failed /play) is dropped as well.
	d.sessions.Remove(req.Listener.GuildID)
	d.notifier.Unsubscribe(req.Listener.GuildID)
	if errors.Is(err, playback.ErrNotConnected) {
		return chat.Message{}, failWith(markEmpty(err), notice(msgNotInVoice, false))
	}
	if err != nil {
		return chat.Message{}, err
	}
	return chat.Message{Embed: &chat.Embed{Title: titleStopped, Color: chat.ColorRed}}, nil
}

func (d *Dispatcher) repeat(ctx context.Context, req Request) (chat.Message, error) {
	on, err := parseToggle(req.Option(optState), "repeat")
	if err != nil {
		return chat.Message{}, err
	}
	d.queue.SetRepeat(on)
	return chat.Message{Embed: &chat.Embed{Title: fmt.Sprintf(titleRepeat, onOff(on))}}, nil
}

func (d *Dispatcher) shuffle(ctx context.Context, req Request) (chat.Message, error) {
	on, err := parseToggle(req.Option(optState), "shuffle")
	if err != nil {
		return chat.Message{}, err
	}
	d.queue.SetShuffle(on)
	return chat.Message{Embed: &chat.Embed{Title: fmt.Sprintf(titleShuffle, onOff(on))}}, nil
}

// sessionFor returns the caller's guild session.
func (d *Dispatcher) sessionFor(req Request) (*session.Session, error) {
	if err := requireGuild(req.Listener); err != nil {
		return nil, err
	}
	return d.sessions.Get(req.Listener.GuildID)
}

func parseToggle(value, command string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, failWith(
			apperr.InvalidArgument("invalid %s state %q", command, value),
			notice(fmt.Sprintf(msgInvalidState, command, command), true),
		)
	}
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func trackNotFound(id string) error {
	return failWith(apperr.NotFound("track %q not found", id), notice(fmt.Sprintf(msgTrackNotFound, id), true))
}

// markEmpty classifies "nothing to act on" errors as apperr.ErrEmpty.
func markEmpty(err error) error {
	if apperr.Kind(err) != nil {
		return err
	}
	return errors.Mark(err, apperr.ErrEmpty)
}
