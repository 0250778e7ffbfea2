package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the request.
func (c *Chain) Execute(ctx context.Context, req TrackRequest, queued []string) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, req, queued)
		if !result.Accepted {
			zlog.Debug().Msgf("filter rejected track: filter=%s track=%s code=%s", f.Name(), req.TrackID, result.Code)
			return result
		}
	}
	return Accept()
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// Settings supplies per-filter configuration to NewChainFromSettings.
type Settings interface {
	IsFilterEnabled(name string, fallback bool) bool
	GetFilterSettings(name string) map[string]any
}

// NewChainFromSettings builds a chain from every registered filter that is enabled,
// in name order so the result does not depend on map iteration.
func NewChainFromSettings(settings Settings) (*Chain, error) {
	chain := NewChain()
	for _, name := range RegisteredNames() {
		f := registry[name]()
		if !settings.IsFilterEnabled(name, f.DefaultEnabled()) {
			zlog.Debug().Msgf("filter disabled: name=%s", name)
			continue
		}
		if err := f.ValidateConfig(settings.GetFilterSettings(name)); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("registered queue filter: name=%s", name)
	}
	return chain, nil
}
