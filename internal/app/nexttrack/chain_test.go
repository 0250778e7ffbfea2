package nexttrack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/noteblock/internal/app/queue"
)

type fakeCatalog []string

func (c fakeCatalog) HasTrack(id string) bool {
	for _, t := range c {
		if t == id {
			return true
		}
	}
	return false
}

func (c fakeCatalog) ListTracks() []string { return c }

func newQueue(t *testing.T, catalog fakeCatalog, ids ...string) *queue.Store {
	t.Helper()
	q := queue.NewStore(catalog, nil)
	for _, id := range ids {
		require.NoError(t, q.Enqueue(context.Background(), id, "u1"))
	}
	return q
}

func TestChain_Precedence(t *testing.T) {
	catalog := fakeCatalog{"A", "B", "C", "current"}
	lastIndex := func(n int) int { return n - 1 }

	tests := []struct {
		name      string
		repeat    bool
		shuffle   bool
		current   string
		queued    []string
		expected  string
		ok        bool
		remaining []string
	}{
		{name: "repeat and shuffle replays current", repeat: true, shuffle: true, current: "current", queued: []string{"A", "B"}, expected: "current", ok: true, remaining: []string{"A", "B"}},
		{name: "repeat only", repeat: true, current: "current", queued: []string{"A"}, expected: "current", ok: true, remaining: []string{"A"}},
		{name: "repeat without current falls through to queue", repeat: true, queued: []string{"A"}, expected: "A", ok: true, remaining: []string{}},
		{name: "shuffle ignores queue", shuffle: true, current: "current", queued: []string{"A", "B"}, expected: "current", ok: true, remaining: []string{"A", "B"}},
		{name: "queue pops front", current: "current", queued: []string{"B", "A"}, expected: "B", ok: true, remaining: []string{"A"}},
		{name: "nothing left", current: "current", ok: false, remaining: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQueue(t, catalog, tt.queued...)
			q.SetRepeat(tt.repeat)
			q.SetShuffle(tt.shuffle)

			chain := NewDefaultChain(q, catalog, q, lastIndex)
			id, ok := chain.Next(context.Background(), Request{Current: tt.current})

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
			assert.Equal(t, tt.remaining, q.View())
		})
	}
}

func TestShuffleProvider_UsesWholeCatalog(t *testing.T) {
	catalog := fakeCatalog{"A", "B", "C"}
	q := newQueue(t, catalog)
	q.SetShuffle(true)

	var seen []int
	p := NewShuffleProvider(q, catalog, func(n int) int {
		seen = append(seen, n)
		return 1
	})

	id, ok := p.Next(context.Background(), Request{})
	assert.True(t, ok)
	assert.Equal(t, "B", id)
	assert.Equal(t, []int{3}, seen)
}

func TestShuffleProvider_EmptyCatalog(t *testing.T) {
	q := newQueue(t, fakeCatalog{})
	q.SetShuffle(true)

	_, ok := NewShuffleProvider(q, fakeCatalog{}, nil).Next(context.Background(), Request{})
	assert.False(t, ok)
}
