package playback

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/nexttrack"
	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/domain/track"
)

// Errors
var (
	ErrNotPlaying   = errors.New("not playing")
	ErrNotPaused    = errors.New("not paused")
	ErrNoTrack      = errors.New("no track playing")
	ErrNotConnected = errors.New("not connected to a voice channel")
	ErrAllMissing   = errors.New("every chosen track was missing")
	ErrClosed       = errors.New("controller closed")
)

const eventBufferSize = 32

// Catalog resolves track IDs to files.
type Catalog interface {
	ResolveTrack(id string) (track.Track, error)
	TrackCount() int
}

// QueueLen reports the queue length.
type QueueLen interface {
	Len() int
}

// Chooser picks the next track ID.
type Chooser interface {
	Next(ctx context.Context, req nexttrack.Request) (string, bool)
}

// Controller manages playback for one guild.
type Controller struct {
	mu sync.Mutex

	guildID string
	voice   VoiceSession
	catalog Catalog
	queue   QueueLen
	chooser Chooser

	// Current track state
	channelID    string // Connected voice channel, empty when disconnected
	currentTrack *track.Track
	state        State
	generation   uint64 // Bumped on every start and stop; stale onDone callbacks are dropped

	// Events
	eventCh chan Event
	closed  bool

	// Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates a new playback controller.
func NewController(guildID string, voice VoiceSession, catalog Catalog, queue QueueLen, chooser Chooser) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		guildID: guildID,
		voice:   voice,
		catalog: catalog,
		queue:   queue,
		chooser: chooser,
		state:   StateIdle,
		eventCh: make(chan Event, eventBufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// GuildID returns the guild this controller plays for.
func (c *Controller) GuildID() string {
	return c.guildID
}

// Play starts the track id in voiceChannelID, replacing whatever is playing.
// The voice session is connected on first use.
func (c *Controller) Play(ctx context.Context, id, voiceChannelID string) (track.Track, error) {
	if voiceChannelID == "" {
		return track.Track{}, apperr.PermissionDenied("caller is not in a voice channel")
	}

	t, err := c.catalog.ResolveTrack(id)
	if err != nil {
		return track.Track{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return track.Track{}, ErrClosed
	}

	if c.channelID == "" {
		if err := c.voice.Connect(ctx, voiceChannelID); err != nil {
			return track.Track{}, errors.Wrapf(err, "failed to connect to voice channel %s", voiceChannelID)
		}
		c.channelID = voiceChannelID
		zlog.Info().Msgf("playback: connected: guild=%s channel=%s", c.guildID, voiceChannelID)
	}

	if err := c.startLocked(ctx, t, ReasonRequested); err != nil {
		return track.Track{}, err
	}
	return t, nil
}

// Pause pauses the current playback.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentTrack == nil || c.state != StatePlaying {
		return ErrNotPlaying
	}

	c.voice.Pause()
	c.state = StatePaused

	c.sendEventLocked(Event{
		Type:  EventStateChanged,
		Track: c.currentTrack,
		State: c.state,
	})
	return nil
}

// Resume resumes paused playback.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentTrack == nil || c.state != StatePaused {
		return ErrNotPaused
	}

	c.voice.Resume()
	c.state = StatePlaying

	c.sendEventLocked(Event{
		Type:  EventStateChanged,
		Track: c.currentTrack,
		State: c.state,
	})
	return nil
}

// Skip stops the current track and plays whatever comes next.
// When nothing comes next the controller goes idle and nil is returned.
func (c *Controller) Skip(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentTrack == nil {
		return ErrNoTrack
	}

	skipped := c.currentTrack
	c.haltLocked()

	c.sendEventLocked(Event{
		Type:  EventTrackSkipped,
		Track: skipped,
		State: c.state,
	})

	return c.advanceLocked(ctx, skipped.ID, ReasonSkip)
}

// Stop stops playback and disconnects from voice.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channelID == "" {
		return ErrNotConnected
	}

	c.haltLocked()
	c.channelID = ""
	if err := c.voice.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "failed to disconnect voice session")
	}
	zlog.Info().Msgf("playback: disconnected: guild=%s", c.guildID)
	return nil
}

// GetState returns the current playback state.
func (c *Controller) GetState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// GetCurrentTrack returns the track that is playing or paused.
func (c *Controller) GetCurrentTrack() (track.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.currentTrack == nil {
		return track.Track{}, false
	}
	return *c.currentTrack, true
}

// IsConnected reports whether the voice session is connected.
func (c *Controller) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID != ""
}

// Close stops playback, disconnects and closes the event channel.
func (c *Controller) Close() {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.haltLocked()
	if c.channelID != "" {
		c.channelID = ""
		if err := c.voice.Disconnect(context.Background()); err != nil {
			zlog.Warn().Msgf("playback: disconnect on close failed: guild=%s error=%v", c.guildID, err)
		}
	}
	c.closed = true
	close(c.eventCh)
}

// startLocked stops anything playing and starts t.
// Must be called with lock held.
func (c *Controller) startLocked(ctx context.Context, t track.Track, reason Reason) error {
	if c.currentTrack != nil || c.voice.IsPlaying() {
		c.voice.Stop()
	}

	c.generation++
	gen := c.generation
	err := c.voice.Play(ctx, t.Path, func(err error) {
		// Never re-enter the lock on the caller's goroutine; Stop may invoke this.
		go c.onTrackEnd(gen, err)
	})
	if err != nil {
		c.currentTrack = nil
		c.state = StateIdle
		return errors.Wrapf(err, "failed to play track %s", t.ID)
	}

	c.currentTrack = &t
	c.state = StatePlaying
	zlog.Info().Msgf("playback: track started: guild=%s track=%s reason=%s", c.guildID, t.ID, reason)

	c.sendEventLocked(Event{
		Type:   EventTrackStarted,
		Track:  c.currentTrack,
		Reason: reason,
		State:  c.state,
	})
	return nil
}

// haltLocked stops the voice output and forgets the current track.
// Must be called with lock held.
func (c *Controller) haltLocked() {
	c.generation++
	c.voice.Stop()
	c.currentTrack = nil
	c.state = StateIdle
}

// advanceLocked asks the chooser for the next track until one resolves.
// Missing files are reported once each and skipped; the number of attempts is
// bounded by the catalog size plus the queue length, so a stale catalog cannot
// loop forever.
// Must be called with lock held.
func (c *Controller) advanceLocked(ctx context.Context, currentID string, reason Reason) error {
	limit := c.catalog.TrackCount() + c.queue.Len() + 1
	missing := make(map[string]struct{})

	for attempt := 0; attempt < limit; attempt++ {
		id, ok := c.chooser.Next(ctx, nexttrack.Request{Current: currentID})
		if !ok {
			c.currentTrack = nil
			c.state = StateIdle
			zlog.Info().Msgf("playback: nothing left to play: guild=%s", c.guildID)
			c.sendTerminalLocked(Event{
				Type:  EventQueueEmpty,
				State: c.state,
			})
			return nil
		}

		t, err := c.catalog.ResolveTrack(id)
		if err != nil {
			if _, seen := missing[id]; seen {
				continue
			}
			missing[id] = struct{}{}
			zlog.Warn().Msgf("playback: next track missing, skipping: guild=%s track=%s", c.guildID, id)
			c.sendEventLocked(Event{
				Type:    EventTrackMissing,
				TrackID: id,
				State:   c.state,
			})
			continue
		}

		return c.startLocked(ctx, t, reason)
	}

	c.currentTrack = nil
	c.state = StateIdle
	zlog.Warn().Msgf("playback: giving up after missing tracks: guild=%s attempts=%d missing=%d",
		c.guildID, limit, len(missing))
	c.sendTerminalLocked(Event{
		Type:  EventAllMissing,
		State: c.state,
	})
	return ErrAllMissing
}

// onTrackEnd is called when a track's stream finishes.
func (c *Controller) onTrackEnd(gen uint64, streamErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation || c.currentTrack == nil {
		return
	}

	if streamErr != nil {
		zlog.Warn().Msgf("playback: stream ended with error: guild=%s track=%s error=%v",
			c.guildID, c.currentTrack.ID, streamErr)
	}

	ended := c.currentTrack
	c.currentTrack = nil
	c.state = StateIdle

	c.sendEventLocked(Event{
		Type:  EventTrackEnded,
		Track: ended,
		State: c.state,
	})

	if err := c.advanceLocked(c.ctx, ended.ID, ReasonCompleted); err != nil && !errors.Is(err, ErrAllMissing) {
		zlog.Error().Msgf("playback: failed to start next track: guild=%s error=%v", c.guildID, err)
	}
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(e Event) {
	if c.closed {
		return
	}
	e.GuildID = c.guildID
	select {
	case c.eventCh <- e:
		// Successfully sent
	case <-c.ctx.Done():
		// Context cancelled, don't send
	default:
		zlog.Warn().Msgf("playback: event dropped, channel full: guild=%s type=%s", c.guildID, e.Type)
	}
}

// sendTerminalLocked sends an event that ends an advance. When the channel is
// full the oldest pending event is discarded to make room, so the listener
// always learns that playback stopped.
// Must be called with lock held.
func (c *Controller) sendTerminalLocked(e Event) {
	if c.closed || c.ctx.Err() != nil {
		return
	}
	e.GuildID = c.guildID
	for {
		select {
		case c.eventCh <- e:
			return
		default:
		}
		select {
		case old := <-c.eventCh:
			zlog.Warn().Msgf("playback: event dropped, channel full: guild=%s type=%s", c.guildID, old.Type)
		default:
		}
	}
}
