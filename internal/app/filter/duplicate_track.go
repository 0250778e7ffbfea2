package filter

import (
	"context"
	"strings"
)

// DuplicateTrackFilter rejects a track that is already waiting in the queue.
// The queue allows duplicates, so this filter is off unless enabled in config.
type DuplicateTrackFilter struct{}

// NewDuplicateTrackFilter creates a new duplicate track filter.
func NewDuplicateTrackFilter() *DuplicateTrackFilter {
	return &DuplicateTrackFilter{}
}

// Name returns the filter name.
func (f *DuplicateTrackFilter) Name() string {
	return "duplicate_track_filter"
}

// Description returns the filter description.
func (f *DuplicateTrackFilter) Description() string {
	return "Rejects tracks that are already waiting in the queue (case-insensitive)"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateTrackFilter) ReturnCodes() []string {
	return []string{"duplicate_track"}
}

// DefaultEnabled returns false.
func (f *DuplicateTrackFilter) DefaultEnabled() bool {
	return false
}

// ValidateConfig validates the filter configuration.
func (f *DuplicateTrackFilter) ValidateConfig(config map[string]any) error {
	// No configuration needed
	return nil
}

// Check checks if the track is a duplicate.
func (f *DuplicateTrackFilter) Check(ctx context.Context, req TrackRequest, queued []string) Result {
	for _, id := range queued {
		if strings.EqualFold(id, req.TrackID) {
			return Reject("duplicate_track")
		}
	}
	return Accept()
}

func init() {
	Register("duplicate_track_filter", func() Filter {
		return NewDuplicateTrackFilter()
	})
}
