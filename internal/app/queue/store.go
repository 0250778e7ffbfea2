// Package queue provides the process-wide playback queue and mode flags.
package queue

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/noteblock/internal/app/filter"
	"github.com/osa030/noteblock/internal/domain/apperr"
)

// Catalog is the subset of the track catalog the store needs.
type Catalog interface {
	HasTrack(id string) bool
}

// Modes is a snapshot of the playback mode flags.
type Modes struct {
	Repeat  bool
	Shuffle bool
}

// RejectedError is returned when an admission filter refuses a track.
// It is marked as apperr.ErrInvalidArgument.
type RejectedError struct {
	TrackID string
	Code    string
}

func (e *RejectedError) Error() string {
	return "track " + e.TrackID + " rejected: " + e.Code
}

// Store holds the ordered queue of track IDs plus the repeat and shuffle flags.
// Duplicates are allowed unless a filter says otherwise.
type Store struct {
	mu      sync.Mutex
	items   []string
	repeat  bool
	shuffle bool
	catalog Catalog
	filters *filter.Chain
}

// NewStore creates a new store. A nil chain admits every resolvable track.
func NewStore(catalog Catalog, filters *filter.Chain) *Store {
	if filters == nil {
		filters = filter.NewChain()
	}
	return &Store{
		items:   make([]string, 0),
		catalog: catalog,
		filters: filters,
	}
}

// Enqueue appends id to the end of the queue.
func (s *Store) Enqueue(ctx context.Context, id, userID string) error {
	if !s.catalog.HasTrack(id) {
		return apperr.NotFound("track %q not found", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	queued := make([]string, len(s.items))
	copy(queued, s.items)
	result := s.filters.Execute(ctx, filter.TrackRequest{TrackID: id, UserID: userID}, queued)
	if !result.Accepted {
		zlog.Info().Msgf("queue: track rejected: track=%s user=%s code=%s", id, userID, result.Code)
		return markInvalid(&RejectedError{TrackID: id, Code: result.Code})
	}

	s.items = append(s.items, id)
	zlog.Info().Msgf("queue: track added: track=%s user=%s position=%d", id, userID, len(s.items))
	return nil
}

// DequeueFront removes and returns the first entry.
func (s *Store) DequeueFront() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return "", apperr.Empty("queue is empty")
	}
	id := s.items[0]
	s.items = s.items[1:]
	return id, nil
}

// Remove deletes the first entry equal to id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			zlog.Info().Msgf("queue: track removed: track=%s", id)
			return nil
		}
	}
	return apperr.NotFound("track %q is not in the queue", id)
}

// Clear empties the queue.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]string, 0)
}

// View returns a copy of the queue contents.
func (s *Store) View() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of queued tracks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// SetRepeat sets the repeat flag.
func (s *Store) SetRepeat(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = on
	zlog.Info().Msgf("queue: repeat mode changed: on=%t", on)
}

// SetShuffle sets the shuffle flag.
func (s *Store) SetShuffle(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = on
	zlog.Info().Msgf("queue: shuffle mode changed: on=%t", on)
}

// Repeat reports the repeat flag.
func (s *Store) Repeat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repeat
}

// Shuffle reports the shuffle flag.
func (s *Store) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuffle
}

// Modes returns both flags read under one lock.
func (s *Store) Modes() Modes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Modes{Repeat: s.repeat, Shuffle: s.shuffle}
}
