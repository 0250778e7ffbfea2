package queue

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/noteblock/internal/app/filter"
	"github.com/osa030/noteblock/internal/domain/apperr"
	"github.com/osa030/noteblock/internal/infra/config"
)

type fakeCatalog map[string]bool

func (c fakeCatalog) HasTrack(id string) bool { return c[id] }

func newTestStore(chain *filter.Chain) *Store {
	return NewStore(fakeCatalog{"calm1": true, "calm2": true, "sweden": true}, chain)
}

func TestStore_EnqueueAppendsAtTail(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	for _, id := range []string{"calm1", "sweden", "calm1"} {
		require.NoError(t, s.Enqueue(ctx, id, "u1"))
	}
	require.NoError(t, s.Enqueue(ctx, "calm2", "u1"))

	assert.Equal(t, []string{"calm1", "sweden", "calm1", "calm2"}, s.View())
	assert.Equal(t, 4, s.Len())
}

func TestStore_DefaultFiltersDoNotLimitQueue(t *testing.T) {
	cfg, err := config.LoadOffline(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	chain, err := filter.NewChainFromSettings(cfg)
	require.NoError(t, err)
	s := newTestStore(chain)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		require.NoError(t, s.Enqueue(ctx, "calm1", "u1"), "enqueue #%d", i+1)
	}
	assert.Equal(t, 150, s.Len())
}

func TestStore_EnqueueUnknownTrack(t *testing.T) {
	s := newTestStore(nil)

	err := s.Enqueue(context.Background(), "missing", "u1")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Empty(t, s.View())
}

func TestStore_EnqueueRejectedByFilter(t *testing.T) {
	limit := filter.NewQueueLimitFilter()
	require.NoError(t, limit.ValidateConfig(map[string]any{"max_size": 1}))
	chain := filter.NewChain()
	chain.Add(limit)

	s := newTestStore(chain)
	ctx := context.Background()
	require.NoError(t, s.Enqueue(ctx, "calm1", "u1"))

	err := s.Enqueue(ctx, "calm2", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidArgument))

	code, ok := RejectionCode(err)
	assert.True(t, ok)
	assert.Equal(t, "queue_full", code)
	assert.Equal(t, []string{"calm1"}, s.View())
}

func TestStore_DequeueFront(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	_, err := s.DequeueFront()
	assert.True(t, errors.Is(err, apperr.ErrEmpty))

	require.NoError(t, s.Enqueue(ctx, "calm1", "u1"))
	require.NoError(t, s.Enqueue(ctx, "calm2", "u1"))

	id, err := s.DequeueFront()
	require.NoError(t, err)
	assert.Equal(t, "calm1", id)
	assert.Equal(t, []string{"calm2"}, s.View())
}

func TestStore_Remove(t *testing.T) {
	tests := []struct {
		name     string
		initial  []string
		remove   string
		expected []string
		wantErr  error
	}{
		{name: "first match only", initial: []string{"calm1", "sweden", "calm1"}, remove: "calm1", expected: []string{"sweden", "calm1"}},
		{name: "last element", initial: []string{"calm1", "sweden"}, remove: "sweden", expected: []string{"calm1"}},
		{name: "absent id leaves queue unchanged", initial: []string{"calm1", "sweden"}, remove: "calm2", expected: []string{"calm1", "sweden"}, wantErr: apperr.ErrNotFound},
		{name: "empty queue", initial: nil, remove: "calm1", expected: []string{}, wantErr: apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(nil)
			for _, id := range tt.initial {
				require.NoError(t, s.Enqueue(context.Background(), id, "u1"))
			}

			err := s.Remove(tt.remove)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, s.View())
		})
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()
	require.NoError(t, s.Enqueue(ctx, "calm1", "u1"))
	require.NoError(t, s.Enqueue(ctx, "sweden", "u1"))

	s.Clear()
	assert.Empty(t, s.View())
	assert.Equal(t, 0, s.Len())

	s.Clear()
	assert.Empty(t, s.View())
}

func TestStore_ViewReturnsCopy(t *testing.T) {
	s := newTestStore(nil)
	require.NoError(t, s.Enqueue(context.Background(), "calm1", "u1"))

	view := s.View()
	view[0] = "changed"
	assert.Equal(t, []string{"calm1"}, s.View())
}

func TestStore_ModesAreIndependent(t *testing.T) {
	s := newTestStore(nil)
	assert.Equal(t, Modes{}, s.Modes())

	s.SetRepeat(true)
	s.SetShuffle(true)
	assert.True(t, s.Repeat())
	assert.True(t, s.Shuffle())
	assert.Equal(t, Modes{Repeat: true, Shuffle: true}, s.Modes())

	s.SetRepeat(false)
	assert.Equal(t, Modes{Repeat: false, Shuffle: true}, s.Modes())
}
