// Package playback drives one guild's voice session: play, pause, resume, skip, stop and
// the choice of what plays next when a track finishes.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // Nothing playing
	StatePlaying              // Track is playing
	StatePaused               // Track is paused
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
