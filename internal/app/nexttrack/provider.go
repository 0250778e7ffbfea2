// Package nexttrack chooses the track that follows the current one.
package nexttrack

import "context"

// Request carries what providers may look at when choosing.
type Request struct {
	Current string // Track that just finished or was skipped; empty if none
}

// Provider is a single next-track strategy.
type Provider interface {
	// Next returns the chosen track ID, or false when the provider does not apply.
	Next(ctx context.Context, req Request) (string, bool)

	// Name returns the provider name (used in logs).
	Name() string
}

// Modes reports the playback mode flags.
type Modes interface {
	Repeat() bool
	Shuffle() bool
}

// TrackLister lists every track in the catalog.
type TrackLister interface {
	ListTracks() []string
}

// Dequeuer pops the front of the queue.
type Dequeuer interface {
	DequeueFront() (string, error)
}
