package apperr

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "not found", err: NotFound("track %q not found", "calm1"), want: ErrNotFound},
		{name: "permission denied", err: PermissionDenied("not in voice"), want: ErrPermissionDenied},
		{name: "invalid argument", err: InvalidArgument("bad state %q", "maybe"), want: ErrInvalidArgument},
		{name: "empty", err: Empty("queue is empty"), want: ErrEmpty},
		{name: "wrapped keeps kind", err: errors.Wrap(NotFound("x"), "resolve"), want: ErrNotFound},
		{name: "plain error has no kind", err: errors.New("boom"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestMessagePreserved(t *testing.T) {
	err := NotFound("track %q not found", "calm1")
	assert.Equal(t, `track "calm1" not found`, err.Error())
}
