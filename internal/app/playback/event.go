package playback

import "github.com/osa030/noteblock/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackStarted EventType = iota // Track started playing
	EventTrackEnded                    // Track finished playing on its own
	EventTrackSkipped                  // Track was skipped
	EventTrackMissing                  // Chosen next track has no file on disk
	EventStateChanged                  // Playback state changed (pause/resume)
	EventQueueEmpty                    // Nothing left to play
	EventAllMissing                    // Gave up after too many missing tracks
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventTrackEnded:
		return "track_ended"
	case EventTrackSkipped:
		return "track_skipped"
	case EventTrackMissing:
		return "track_missing"
	case EventStateChanged:
		return "state_changed"
	case EventQueueEmpty:
		return "queue_empty"
	case EventAllMissing:
		return "all_missing"
	default:
		return "unknown"
	}
}

// Reason tells why a track started.
type Reason int

const (
	ReasonRequested Reason = iota // Explicit play command
	ReasonSkip                    // Chosen after a skip
	ReasonCompleted               // Chosen after the previous track finished
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonRequested:
		return "requested"
	case ReasonSkip:
		return "skip"
	case ReasonCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type    EventType
	GuildID string
	Track   *track.Track // Current or affected track (nil for some events)
	TrackID string       // Set for EventTrackMissing
	Reason  Reason       // Set for EventTrackStarted
	State   State        // Playback state after the event
}
