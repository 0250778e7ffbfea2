package nexttrack

import (
	"context"

	zlog "github.com/rs/zerolog/log"
)

// Chain asks providers in order and returns the first answer.
type Chain struct {
	providers []Provider
}

// NewChain creates a chain that consults providers in the given order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// NewDefaultChain returns the repeat, shuffle, queue chain.
func NewDefaultChain(modes Modes, tracks TrackLister, queue Dequeuer, intn func(n int) int) *Chain {
	return NewChain(
		NewRepeatProvider(modes),
		NewShuffleProvider(modes, tracks, intn),
		NewQueueProvider(queue),
	)
}

// Next returns the next track ID, or false when every provider declined.
func (c *Chain) Next(ctx context.Context, req Request) (string, bool) {
	for i, p := range c.providers {
		id, ok := p.Next(ctx, req)
		if !ok {
			zlog.Debug().Msgf("next track provider declined: index=%d total=%d provider=%s",
				i+1, len(c.providers), p.Name())
			continue
		}
		zlog.Debug().Msgf("next track chosen: provider=%s track=%s", p.Name(), id)
		return id, true
	}
	return "", false
}
