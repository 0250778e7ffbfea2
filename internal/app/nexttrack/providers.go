package nexttrack

import (
	"context"
	"math/rand/v2"
)

// RepeatProvider replays the current track while repeat is on.
type RepeatProvider struct {
	modes Modes
}

// NewRepeatProvider creates a new repeat provider.
func NewRepeatProvider(modes Modes) *RepeatProvider {
	return &RepeatProvider{modes: modes}
}

func (p *RepeatProvider) Name() string { return "repeat" }

func (p *RepeatProvider) Next(ctx context.Context, req Request) (string, bool) {
	if !p.modes.Repeat() || req.Current == "" {
		return "", false
	}
	return req.Current, true
}

// ShuffleProvider picks a uniformly random track from the whole catalog while shuffle is on.
// The queue is not consulted.
type ShuffleProvider struct {
	modes  Modes
	tracks TrackLister
	intn   func(n int) int
}

// NewShuffleProvider creates a new shuffle provider. A nil intn uses math/rand/v2.
func NewShuffleProvider(modes Modes, tracks TrackLister, intn func(n int) int) *ShuffleProvider {
	if intn == nil {
		intn = rand.IntN
	}
	return &ShuffleProvider{modes: modes, tracks: tracks, intn: intn}
}

func (p *ShuffleProvider) Name() string { return "shuffle" }

func (p *ShuffleProvider) Next(ctx context.Context, req Request) (string, bool) {
	if !p.modes.Shuffle() {
		return "", false
	}
	ids := p.tracks.ListTracks()
	if len(ids) == 0 {
		return "", false
	}
	return ids[p.intn(len(ids))], true
}

// QueueProvider pops the front of the queue.
type QueueProvider struct {
	queue Dequeuer
}

// NewQueueProvider creates a new queue provider.
func NewQueueProvider(queue Dequeuer) *QueueProvider {
	return &QueueProvider{queue: queue}
}

func (p *QueueProvider) Name() string { return "queue" }

func (p *QueueProvider) Next(ctx context.Context, req Request) (string, bool) {
	id, err := p.queue.DequeueFront()
	if err != nil {
		return "", false
	}
	return id, true
}
