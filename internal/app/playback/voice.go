package playback

import "context"

// VoiceSession is the audio output of one guild.
//
// Play streams the file at path and calls onDone exactly once when streaming ends,
// with nil on natural completion. onDone may also fire after Stop; the controller
// ignores callbacks from tracks it no longer owns.
type VoiceSession interface {
	Connect(ctx context.Context, channelID string) error
	Play(ctx context.Context, path string, onDone func(err error)) error
	Stop()
	Pause()
	Resume()
	IsPlaying() bool
	Disconnect(ctx context.Context) error
}
